// Package casper reads contract dictionary state from a Casper node over
// JSON-RPC.
package casper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/nulln0ne/casper-swap-estimator/pkg/clvalue"
)

const (
	methodStateRootHash  = "chain_get_state_root_hash"
	methodDictionaryItem = "state_get_dictionary_item"

	// codeQueryFailed is what the node answers for a dictionary key with no value.
	codeQueryFailed = -32003
)

// ErrNoStateRoot is returned when the node answers without a state root hash.
var ErrNoStateRoot = errors.New("node returned no state root hash")

// Client implements the resolver's state reader on top of a JSON-RPC
// connection.
type Client struct {
	rpc *rpc.Client
}

// RPCURL appends the /rpc path a node address needs, if missing.
func RPCURL(node string) string {
	node = strings.TrimRight(node, "/")
	if strings.HasSuffix(node, "/rpc") {
		return node
	}
	return node + "/rpc"
}

func Dial(ctx context.Context, url string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	c, err := rpc.DialContext(ctx, RPCURL(url))
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

func NewClient(c *rpc.Client) *Client {
	return &Client{rpc: c}
}

func (c *Client) Close() {
	c.rpc.Close()
}

// GetCurrentStateRoot returns the state root hash of the latest block.
func (c *Client) GetCurrentStateRoot(ctx context.Context) (string, error) {
	var res StateRootHashResult
	if err := c.rpc.CallContext(ctx, &res, methodStateRootHash); err != nil {
		return "", fmt.Errorf("%s: %w", methodStateRootHash, err)
	}
	if res.StateRootHash == "" {
		return "", ErrNoStateRoot
	}
	return res.StateRootHash, nil
}

// GetDictionaryItem reads dictionaryKey under seedURef at stateRootHash. A key
// without a value yields (nil, nil). A stored value that is not a CLValue is
// a decode error.
func (c *Client) GetDictionaryItem(ctx context.Context, stateRootHash, seedURef, dictionaryKey string) (*clvalue.TypedValue, error) {
	id := DictionaryIdentifier{URef: &URefDictionaryIdentifier{
		SeedURef:          seedURef,
		DictionaryItemKey: dictionaryKey,
	}}

	var res DictionaryItemResult
	err := c.rpc.CallContext(ctx, &res, methodDictionaryItem, stateRootHash, id)
	if err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeQueryFailed {
			return nil, nil
		}
		return nil, fmt.Errorf("%s %s: %w", methodDictionaryItem, dictionaryKey, err)
	}

	if res.StoredValue == nil {
		return nil, nil
	}
	if res.StoredValue.CLValue == nil {
		return nil, fmt.Errorf("%w: dictionary item %s is not a CLValue", clvalue.ErrDecode, dictionaryKey)
	}
	return res.StoredValue.CLValue, nil
}
