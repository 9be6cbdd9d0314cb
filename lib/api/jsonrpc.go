package api

import (
	"encoding/binary"
	"encoding/json"
	"net/http"

	"github.com/btcsuite/btcutil/base58"
	"github.com/gorilla/rpc"
	rpcjson "github.com/gorilla/rpc/json"
	"github.com/stellar/go/keypair"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/congress"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/voting"
)

// SignedArgs is the argument of every governance call. `Signature` is the
// base58 encoded signature of the sender over the network id, the 8 bytes
// big endian `SequenceID` and `Body`. `SequenceID` must be the one of the
// sender's account, see `URLAccount`.
type SignedArgs struct {
	Sender     string          `json:"sender"`
	SequenceID uint64          `json:"sequence_id"`
	Body       json.RawMessage `json:"body"`
	Signature  string          `json:"signature"`
}

func signingInput(networkID []byte, sequenceID uint64, body []byte) []byte {
	b := make([]byte, len(networkID)+8, len(networkID)+8+len(body))
	copy(b, networkID)
	binary.BigEndian.PutUint64(b[len(networkID):], sequenceID)
	return append(b, body...)
}

// NewSignedArgs marshals `body` and signs it with `kp` for the given
// sequence id.
func NewSignedArgs(kp *keypair.Full, networkID []byte, sequenceID uint64, body interface{}) (SignedArgs, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return SignedArgs{}, err
	}

	signature, err := kp.Sign(signingInput(networkID, sequenceID, b))
	if err != nil {
		return SignedArgs{}, err
	}

	return SignedArgs{
		Sender:     kp.Address(),
		SequenceID: sequenceID,
		Body:       b,
		Signature:  base58.Encode(signature),
	}, nil
}

func (a SignedArgs) verify(networkID []byte) error {
	kp, err := keypair.Parse(a.Sender)
	if err != nil {
		return errors.InvalidAddress.Clone().SetData("address", a.Sender)
	}

	signature := base58.Decode(a.Signature)
	if len(signature) < 1 {
		return errors.InvalidSignature.Clone().SetData("sender", a.Sender)
	}
	if err = kp.Verify(signingInput(networkID, a.SequenceID, a.Body), signature); err != nil {
		return errors.InvalidSignature.Clone().SetData("sender", a.Sender)
	}

	return nil
}

func (a SignedArgs) decode(networkID []byte, v interface{}) error {
	if err := a.verify(networkID); err != nil {
		return err
	}
	if err := json.Unmarshal(a.Body, v); err != nil {
		return errors.BadRequestParameter.Clone().SetData("body", err.Error())
	}

	return nil
}

type ProposalArgs struct {
	ID uint64 `json:"id"`
}

// VoteArgs votes `Vote`, one of "yes", "no" or "abstain", on single choice
// proposals and the option index `Choice` on multiple choice ones.
type VoteArgs struct {
	ID        uint64  `json:"id"`
	Vote      string  `json:"vote,omitempty"`
	Choice    *uint32 `json:"choice,omitempty"`
	Rationale *string `json:"rationale,omitempty"`
}

func (v VoteArgs) choice() (voting.Choice, error) {
	switch {
	case v.Choice != nil && len(v.Vote) < 1:
		return voting.Choice(*v.Choice), nil
	case v.Choice == nil && len(v.Vote) > 0:
		return voting.ParseChoice(v.Vote)
	default:
		return 0, errors.BadRequestParameter.Clone().SetData("reason", "exactly one of 'vote' or 'choice' must be given")
	}
}

type RationaleArgs struct {
	ID        uint64  `json:"id"`
	Rationale *string `json:"rationale,omitempty"`
}

// ActionResult is the proposal an action touched and its status right after
// the action.
type ActionResult struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

type ConfigResult struct {
	DAO string `json:"dao"`
}

// jsonrpcCongress is the "Congress" service; every method runs one
// governance action at the current block of the node clock and consumes the
// sequence id of the sender.
type jsonrpcCongress struct {
	api       *HandlerAPI
	networkID []byte
}

func (j *jsonrpcCongress) env(args *SignedArgs) congress.Env {
	sequenceID := args.SequenceID
	return congress.Env{Sender: args.Sender, Block: j.api.now(), SequenceID: &sequenceID}
}

func (j *jsonrpcCongress) result(block common.BlockInfo, id uint64, result *ActionResult) error {
	record, err := j.api.congress.GetProposal(block, id)
	if err != nil {
		return err
	}

	*result = ActionResult{ID: id, Status: record.GetHeader().Status.String()}
	return nil
}

func (j *jsonrpcCongress) Propose(r *http.Request, args *SignedArgs, result *ActionResult) error {
	var msg congress.ProposeMsg
	if err := args.decode(j.networkID, &msg); err != nil {
		return err
	}

	env := j.env(args)
	id, err := j.api.congress.Propose(env, msg)
	if err != nil {
		return err
	}

	return j.result(env.Block, id, result)
}

func (j *jsonrpcCongress) ProposeMultiple(r *http.Request, args *SignedArgs, result *ActionResult) error {
	var msg congress.ProposeMultipleMsg
	if err := args.decode(j.networkID, &msg); err != nil {
		return err
	}

	env := j.env(args)
	id, err := j.api.congress.ProposeMultiple(env, msg)
	if err != nil {
		return err
	}

	return j.result(env.Block, id, result)
}

func (j *jsonrpcCongress) Vote(r *http.Request, args *SignedArgs, result *ActionResult) error {
	var v VoteArgs
	if err := args.decode(j.networkID, &v); err != nil {
		return err
	}
	choice, err := v.choice()
	if err != nil {
		return err
	}

	env := j.env(args)
	if err = j.api.congress.Vote(env, v.ID, choice, v.Rationale); err != nil {
		return err
	}

	return j.result(env.Block, v.ID, result)
}

func (j *jsonrpcCongress) UpdateRationale(r *http.Request, args *SignedArgs, result *ActionResult) error {
	var v RationaleArgs
	if err := args.decode(j.networkID, &v); err != nil {
		return err
	}

	env := j.env(args)
	if err := j.api.congress.UpdateRationale(env, v.ID, v.Rationale); err != nil {
		return err
	}

	return j.result(env.Block, v.ID, result)
}

func (j *jsonrpcCongress) proposalAction(args *SignedArgs, result *ActionResult, f func(congress.Env, uint64) error) error {
	var p ProposalArgs
	if err := args.decode(j.networkID, &p); err != nil {
		return err
	}

	env := j.env(args)
	if err := f(env, p.ID); err != nil {
		return err
	}

	return j.result(env.Block, p.ID, result)
}

func (j *jsonrpcCongress) Execute(r *http.Request, args *SignedArgs, result *ActionResult) error {
	return j.proposalAction(args, result, j.api.congress.Execute)
}

func (j *jsonrpcCongress) Close(r *http.Request, args *SignedArgs, result *ActionResult) error {
	return j.proposalAction(args, result, j.api.congress.Close)
}

func (j *jsonrpcCongress) Veto(r *http.Request, args *SignedArgs, result *ActionResult) error {
	return j.proposalAction(args, result, j.api.congress.Veto)
}

func (j *jsonrpcCongress) UpdateConfig(r *http.Request, args *SignedArgs, result *ConfigResult) error {
	var config congress.Config
	if err := args.decode(j.networkID, &config); err != nil {
		return err
	}

	if err := j.api.congress.UpdateConfig(j.env(args), config); err != nil {
		return err
	}

	*result = ConfigResult{DAO: config.DAO}
	return nil
}

// JSONRPCHandler serves the "Congress" service over JSON-RPC 1.0.
func (api *HandlerAPI) JSONRPCHandler(networkID []byte) (http.Handler, error) {
	s := rpc.NewServer()
	s.RegisterCodec(rpcjson.NewCodec(), "application/json")
	s.RegisterCodec(rpcjson.NewCodec(), "application/json;charset=UTF-8")

	if err := s.RegisterService(&jsonrpcCongress{api: api, networkID: networkID}, "Congress"); err != nil {
		return nil, err
	}

	return s, nil
}
