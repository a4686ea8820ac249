package electioncmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbochenek/liberland-vote-scope/pkg/apperr"
	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
)

func TestParseBlockHashFlagAcceptsHexPrefix(t *testing.T) {
	raw := make([]byte, len(datasource.BlockHash{}))
	for i := range raw {
		raw[i] = byte(i)
	}
	hexStr := "0x"
	for _, b := range raw {
		hexStr += string("0123456789abcdef"[b>>4]) + string("0123456789abcdef"[b&0xf])
	}

	h, err := parseBlockHashFlag(hexStr)
	require.NoError(t, err)
	require.Equal(t, raw, h[:])
}

func TestParseBlockHashFlagRejectsWrongLength(t *testing.T) {
	_, err := parseBlockHashFlag("0xdead")
	require.Error(t, err)
}

func TestParseBlockHashFlagRejectsNonHex(t *testing.T) {
	_, err := parseBlockHashFlag("not-hex")
	require.Error(t, err)
	require.Equal(t, apperr.KindPresentation, apperr.Of(err))
}
