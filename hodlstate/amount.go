package hodlstate

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/lightninglabs/hodlvoice/hodlerr"
)

// MilliSatoshi is the unit HTLC and invoice amounts are expressed in
// throughout this plugin.
type MilliSatoshi uint64

// ToSatoshis rounds down to whole satoshis, for use in human-readable log
// lines (mirrors lnwire.MilliSatoshi.ToSatoshis, which isn't vendored here).
func (m MilliSatoshi) ToSatoshis() btcutil.Amount {
	return btcutil.Amount(m / 1000)
}

// FormatSCID renders a short channel id in the standard
// blockheight x tx-index x output-index form, as state.rs's
// short_channel_id_to_string does.
func FormatSCID(scid uint64) string {
	blockHeight := scid >> 40
	txIndex := (scid >> 16) & 0xFFFFFF
	outputIndex := scid & 0xFFFF

	return formatSCIDParts(blockHeight, txIndex, outputIndex)
}

func formatSCIDParts(block, tx, output uint64) string {
	return strconv.FormatUint(block, 10) + "x" +
		strconv.FormatUint(tx, 10) + "x" +
		strconv.FormatUint(output, 10)
}

// ParseMsat parses a host-formatted "<n>msat" amount string. The source
// this is ported from assumed the last four characters are always literally
// "msat" and sliced them off blindly; this strips the documented suffix
// explicitly and fails loudly if it's absent instead of silently truncating
// a differently-shaped value.
func ParseMsat(s string) (MilliSatoshi, error) {
	trimmed := strings.TrimSuffix(s, "msat")
	if trimmed == s {
		return 0, hodlerr.New(hodlerr.KindParse,
			"amount %q missing expected msat suffix", s)
	}

	v, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, hodlerr.New(hodlerr.KindParse,
			"amount %q is not numeric: %v", s, err)
	}

	return MilliSatoshi(v), nil
}
