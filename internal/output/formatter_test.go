package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/storage"
)

const testABI = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

func TestFormatter_PrintFunctions(t *testing.T) {
	rows := NewFunctionRows(schema.Parse(testABI), map[string]string{"transfer": "moves tokens"})
	require.Len(t, rows, 1)
	assert.Equal(t, "transfer(address,uint256)", rows[0].Signature)
	assert.Equal(t, []string{"address to", "uint256 arg1"}, rows[0].Inputs)

	tests := []struct {
		format string
		check  func(t *testing.T, out []byte)
	}{
		{FormatTable, func(t *testing.T, out []byte) {
			assert.Contains(t, string(out), "transfer")
			assert.Contains(t, string(out), "moves tokens")
		}},
		{FormatJSON, func(t *testing.T, out []byte) {
			var decoded []FunctionRow
			require.NoError(t, json.Unmarshal(out, &decoded))
			assert.Equal(t, rows, decoded)
		}},
		{FormatYAML, func(t *testing.T, out []byte) {
			var decoded []FunctionRow
			require.NoError(t, yaml.Unmarshal(out, &decoded))
			assert.Equal(t, rows, decoded)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewFormatterWithWriter(tt.format, &buf).PrintFunctions(rows))
			tt.check(t, buf.Bytes())
		})
	}
}

func TestFormatter_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterWithWriter("xml", &buf)
	assert.Error(t, f.PrintFunctions(nil))
	assert.Error(t, f.PrintContracts(nil))
	assert.Error(t, f.Print(map[string]string{}))
}

func TestFormatter_PrintContracts(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatterWithWriter("", &buf)
	require.NoError(t, f.PrintContracts(nil))
	assert.Contains(t, buf.String(), "No saved contracts")

	buf.Reset()
	require.NoError(t, f.PrintContracts([]*storage.SavedContract{{
		ID:        "abc",
		Name:      "Vault",
		Address:   "0x01",
		NetworkID: "1",
		CreatedAt: time.Now().UnixMilli(),
	}}))
	assert.Contains(t, buf.String(), "Vault")
	assert.Contains(t, buf.String(), "abc")
}

func TestFormatter_PrintLog(t *testing.T) {
	entries := []logsink.Entry{{
		Timestamp: time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
		Severity:  logsink.Success,
		Message:   "Result (balanceOf)",
		Data:      "100",
	}}

	var buf bytes.Buffer
	require.NoError(t, NewFormatterWithWriter(FormatTable, &buf).PrintLog(entries))
	assert.Contains(t, buf.String(), "SUCCESS Result (balanceOf)")
	assert.Contains(t, buf.String(), "100")

	buf.Reset()
	require.NoError(t, NewFormatterWithWriter(FormatJSON, &buf).PrintLog(entries))
	assert.Contains(t, buf.String(), `"severity": "success"`)
}

func TestFormatter_PrintGeneric(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatterWithWriter(FormatTable, &buf).Print(map[string]string{"b": "2", "a": "1"}))
	out := buf.String()
	assert.Less(t, strings.Index(out, "| a "), strings.Index(out, "| b "))
	assert.NotEqual(t, -1, strings.Index(out, "| a "))
}
