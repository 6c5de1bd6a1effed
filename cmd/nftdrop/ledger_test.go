package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/iov-one/nftdrop/client"
	"github.com/iov-one/nftdrop/tx"
	"github.com/iov-one/nftdrop/wasm"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

func init() {
	stderr = ioutil.Discard
}

// fakeLedger serves the light client daemon API. Every broadcast
// transaction must carry valid signatures and is recorded.
type fakeLedger struct {
	t       *testing.T
	chainID string

	mu       sync.Mutex
	sequence uint64
	txs      []*tx.Tx
	// reject maps the index of a broadcast to the raw log it fails with.
	reject map[int]string
}

func newFakeLedger(t *testing.T, chainID string, sequence uint64) (*fakeLedger, *httptest.Server) {
	t.Helper()
	l := &fakeLedger{
		t:        t,
		chainID:  chainID,
		sequence: sequence,
		reject:   make(map[int]string),
	}
	srv := httptest.NewServer(l)
	t.Cleanup(srv.Close)
	return l, srv
}

func (l *fakeLedger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == "GET" && r.URL.Path == "/cosmos/base/tendermint/v1beta1/node_info":
		fmt.Fprintf(w, `{"default_node_info": {"network": %q}}`, l.chainID)
	case r.Method == "GET" && strings.HasPrefix(r.URL.Path, "/cosmos/auth/v1beta1/accounts/"):
		fmt.Fprintf(w, `{"account": {"sequence": "%d"}}`, l.sequence)
	case r.Method == "POST" && r.URL.Path == "/cosmos/tx/v1beta1/simulate":
		fmt.Fprint(w, `{"gas_info": {"gas_used": "100000"}}`)
	case r.Method == "POST" && r.URL.Path == "/cosmos/tx/v1beta1/txs":
		l.broadcast(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code": 5, "message": "not found"}`)
	}
}

func (l *fakeLedger) broadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TxBytes []byte `json:"tx_bytes"`
		Mode    string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.fail(w, "cannot decode request: %s", err)
		return
	}
	if req.Mode != "BROADCAST_MODE_BLOCK" {
		l.fail(w, "unexpected broadcast mode %q", req.Mode)
		return
	}
	transaction, err := tx.Decode(req.TxBytes)
	if err != nil {
		l.fail(w, "cannot decode transaction: %s", err)
		return
	}
	if _, err := transaction.VerifySignatures(l.chainID); err != nil {
		l.fail(w, "invalid signatures: %s", err)
		return
	}

	index := len(l.txs)
	l.txs = append(l.txs, transaction)
	hash := fmt.Sprintf("HASH%d", index+1)

	if transaction.Signatures[0].Sequence != l.sequence {
		writeTxResponse(w, hash, 32, "account sequence mismatch", nil)
		return
	}
	// Fees are paid and the sequence is used even by a failed
	// transaction.
	l.sequence++
	if raw, ok := l.reject[index]; ok {
		writeTxResponse(w, hash, 5, raw, nil)
		return
	}

	var event client.Event
	switch msg := transaction.Msgs[0].(type) {
	case *wasm.MsgStoreCode:
		event = client.Event{Type: "store_code", Attributes: []client.Attribute{{Key: "code_id", Value: "7"}}}
	case *wasm.MsgInstantiateContract:
		event = client.Event{Type: "instantiate_contract", Attributes: []client.Attribute{{Key: "contract_address", Value: "terra1contract"}}}
	case *wasm.MsgExecuteContract:
		event = client.Event{Type: "execute_contract", Attributes: []client.Attribute{{Key: "contract_address", Value: msg.Contract}}}
	}
	writeTxResponse(w, hash, 0, "", client.TxLogs{{MsgIndex: 0, Events: []client.Event{event}}})
}

func (l *fakeLedger) fail(w http.ResponseWriter, format string, args ...interface{}) {
	l.t.Errorf(format, args...)
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprint(w, `{"code": 3, "message": "bad request"}`)
}

func writeTxResponse(w http.ResponseWriter, hash string, code uint32, rawLog string, logs client.TxLogs) {
	res := map[string]interface{}{
		"tx_response": map[string]interface{}{
			"height":     "1000",
			"txhash":     hash,
			"code":       code,
			"raw_log":    rawLog,
			"logs":       logs,
			"gas_wanted": "140000",
			"gas_used":   "100000",
		},
	}
	json.NewEncoder(w).Encode(res)
}

func (l *fakeLedger) broadcasts() []*tx.Tx {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*tx.Tx(nil), l.txs...)
}

// writeConfig creates a configuration file using the local network served
// by the given ledger.
func writeConfig(t *testing.T, lcdURL string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nftdrop.yaml")
	content := fmt.Sprintf(`
network: local
mnemonic: %q
networks:
  local:
    lcd: %s
`, testMnemonic, lcdURL)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return path
}

// writeRecipients creates a recipients file of n addresses and returns the
// path and the addresses.
func writeRecipients(t *testing.T, dir string, level, n int) (string, []string) {
	t.Helper()
	addrs := make([]string, n)
	for i := range addrs {
		addrs[i] = fmt.Sprintf("terra1recipient%04d", i)
	}
	path := filepath.Join(dir, fmt.Sprintf("level_%d_owners.txt", level))
	require.NoError(t, ioutil.WriteFile(path, []byte(strings.Join(addrs, "\n")+"\n"), 0644))
	return path, addrs
}
