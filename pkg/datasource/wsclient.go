package datasource

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rbochenek/liberland-vote-scope/pkg/apperr"
)

// WSDataSource fetches election snapshots over a Substrate-style JSON-RPC
// WebSocket connection, querying the council pallet's storage items at a
// given block (or the chain head, when no block is requested).
type WSDataSource struct {
	conn    *websocket.Conn
	timeout time.Duration
}

// Dial opens a WSDataSource against uri, the chain node's WebSocket RPC
// endpoint.
func Dial(ctx context.Context, uri string, timeout time.Duration) (*WSDataSource, error) {
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.DialContext(ctx, uri, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, fmt.Sprintf("dial %s", uri), err)
	}
	return &WSDataSource{conn: conn, timeout: timeout}, nil
}

// Close closes the underlying connection.
func (d *WSDataSource) Close() error {
	return d.conn.Close()
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call performs one JSON-RPC request/response round trip, correlating by a
// freshly generated request ID (the connection is used for one request at a
// time by this client, so no demultiplexing is required).
func (d *WSDataSource) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	id := uuid.NewString()
	req := rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(d.timeout)
	}
	if err := d.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := d.conn.WriteJSON(req); err != nil {
		return apperr.Wrap(apperr.KindTransport, fmt.Sprintf("write %s", method), err)
	}

	if err := d.conn.SetReadDeadline(deadline); err != nil {
		return err
	}
	var resp rpcResponse
	if err := d.conn.ReadJSON(&resp); err != nil {
		return apperr.Wrap(apperr.KindTransport, fmt.Sprintf("read %s", method), err)
	}
	if resp.Error != nil {
		return apperr.New(apperr.KindMissingStorage,
			fmt.Sprintf("%s: rpc error %d: %s", method, resp.Error.Code, resp.Error.Message))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Result, out)
}

// Fetch implements ElectionsDataSource by querying chain head (or the given
// block) and the council pallet's storage items at that block.
func (d *WSDataSource) Fetch(ctx context.Context, blockHash *BlockHash) (Snapshot, error) {
	hash, err := d.resolveBlockHash(ctx, blockHash)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	snap.BlockHash = hash

	if err := d.call(ctx, "phragmenElection_desiredMembers", []interface{}{hexOf(hash)}, &snap.DesiredMembers); err != nil {
		return Snapshot{}, err
	}
	if err := d.call(ctx, "phragmenElection_desiredRunnersUp", []interface{}{hexOf(hash)}, &snap.DesiredRunnersUp); err != nil {
		return Snapshot{}, err
	}
	if err := d.call(ctx, "phragmenElection_electionRounds", []interface{}{hexOf(hash)}, &snap.ElectionRounds); err != nil {
		return Snapshot{}, err
	}
	if err := d.call(ctx, "phragmenElection_members", []interface{}{hexOf(hash)}, &snap.Members); err != nil {
		return Snapshot{}, err
	}
	if err := d.call(ctx, "phragmenElection_runnersUp", []interface{}{hexOf(hash)}, &snap.RunnersUp); err != nil {
		return Snapshot{}, err
	}
	if err := d.call(ctx, "phragmenElection_candidates", []interface{}{hexOf(hash)}, &snap.Candidates); err != nil {
		return Snapshot{}, err
	}
	if err := d.call(ctx, "phragmenElection_voting", []interface{}{hexOf(hash)}, &snap.Voting); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

func (d *WSDataSource) resolveBlockHash(ctx context.Context, blockHash *BlockHash) (BlockHash, error) {
	if blockHash != nil {
		return *blockHash, nil
	}
	var hex string
	if err := d.call(ctx, "chain_getBlockHash", nil, &hex); err != nil {
		return BlockHash{}, err
	}
	return parseBlockHash(hex)
}

func hexOf(h BlockHash) string {
	return "0x" + hex.EncodeToString(h[:])
}

func parseBlockHash(s string) (BlockHash, error) {
	var h BlockHash
	raw, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil {
		return h, fmt.Errorf("datasource: parse block hash %q: %w", s, err)
	}
	if len(raw) != len(h) {
		return h, fmt.Errorf("datasource: block hash %q has wrong length", s)
	}
	copy(h[:], raw)
	return h, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
