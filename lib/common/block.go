package common

import (
	"time"

	"github.com/beevik/ntp"
)

// BlockInfo is the "now" every status computation is evaluated against.
type BlockInfo struct {
	Height uint64
	Time   time.Time
}

func (b BlockInfo) Unix() uint64 {
	if b.Time.IsZero() || b.Time.Unix() < 0 {
		return 0
	}

	return uint64(b.Time.Unix())
}

// Next returns the block `n` heights later, `blockTime` apart.
func (b BlockInfo) Next(n uint64, blockTime time.Duration) BlockInfo {
	return BlockInfo{
		Height: b.Height + n,
		Time:   b.Time.Add(time.Duration(n) * blockTime),
	}
}

// Clock derives block heights from wall time for a standalone node, one
// height every `BlockTime` since `Genesis`.
type Clock struct {
	Genesis   time.Time
	BlockTime time.Duration

	offset time.Duration
	now    func() time.Time
}

func NewClock(genesis time.Time, blockTime time.Duration) *Clock {
	return &Clock{
		Genesis:   genesis,
		BlockTime: blockTime,
		now:       time.Now,
	}
}

// SyncNTP adjusts the clock by the offset reported by the ntp server.
func (c *Clock) SyncNTP(server string) error {
	response, err := ntp.Query(server)
	if err != nil {
		return err
	}
	if err = response.Validate(); err != nil {
		return err
	}

	c.offset = response.ClockOffset
	return nil
}

func (c *Clock) Offset() time.Duration {
	return c.offset
}

func (c *Clock) Now() BlockInfo {
	now := c.now().Add(c.offset).UTC()

	var height uint64
	if elapsed := now.Sub(c.Genesis); elapsed > 0 && c.BlockTime > 0 {
		height = uint64(elapsed / c.BlockTime)
	}

	return BlockInfo{Height: height, Time: now}
}
