package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	rpcjson "github.com/gorilla/rpc/json"
	"github.com/stellar/go/keypair"

	"boscoin.io/congress/lib/api/resource"
	"boscoin.io/congress/lib/congress"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/httputils"
)

// Client sends signed governance actions to the json-rpc endpoint of a
// node.
type Client struct {
	endpoint  string
	networkID []byte
	kp        *keypair.Full
	client    *http.Client
}

// NewClient calls the node at `endpoint`, like "http://127.0.0.1:12345".
func NewClient(endpoint string, networkID []byte, kp *keypair.Full) *Client {
	return &Client{
		endpoint:  strings.TrimRight(endpoint, "/"),
		networkID: networkID,
		kp:        kp,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Account fetches the account of the signer from the node.
func (c *Client) Account() (account congress.Account, err error) {
	u := c.endpoint + strings.Replace(resource.URLAccount, "{id}", c.kp.Address(), -1)

	resp, err := c.client.Get(u)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var problem httputils.Problem
		if err = json.NewDecoder(resp.Body).Decode(&problem); err != nil {
			return
		}
		err = errors.New(problem.Title)
		return
	}

	err = json.NewDecoder(resp.Body).Decode(&account)

	return
}

// Call signs `body` with the current sequence id of the signer and calls
// `method` of the "Congress" service, like "Propose" or "Vote".
func (c *Client) Call(method string, body interface{}, result interface{}) error {
	account, err := c.Account()
	if err != nil {
		return err
	}

	args, err := NewSignedArgs(c.kp, c.networkID, account.SequenceID, body)
	if err != nil {
		return err
	}

	message, err := rpcjson.EncodeClientRequest("Congress."+method, &args)
	if err != nil {
		return err
	}

	u := c.endpoint + resource.URLJSONRPC
	req, err := http.NewRequest("POST", u, bytes.NewBuffer(message))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	log.Debug("json-rpc called", "endpoint", u, "method", method, "sequence_id", args.SequenceID, "status", resp.StatusCode)

	return rpcjson.DecodeClientResponse(resp.Body, result)
}
