package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/congress/lib/congress"
)

type Account struct {
	a congress.Account
}

func NewAccount(a congress.Account) *Account {
	return &Account{a: a}
}

func (a Account) GetMap() hal.Entry {
	return hal.Entry{
		"address":     a.a.Address,
		"sequence_id": a.a.SequenceID,
	}
}

func (a Account) Resource() *hal.Resource {
	return hal.NewResource(a, a.LinkSelf())
}

func (a Account) LinkSelf() string {
	return replace(URLAccount, "{id}", a.a.Address)
}
