package moro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOneshotDeliver(t *testing.T) {
	r := require.New(t)

	tx, rx := newOneshot[int]()

	woke := 0
	cx := NewContext(func() { woke++ })

	_, ok := rx.Poll(cx)
	r.False(ok)

	tx.send(41)
	r.Equal(1, woke)

	v, ok := rx.Poll(cx)
	r.True(ok)
	r.Equal(41, v)
}

func TestOneshotSendBeforePoll(t *testing.T) {
	r := require.New(t)

	tx, rx := newOneshot[string]()
	tx.send("early")

	v, ok := rx.Poll(NewContext(nil))
	r.True(ok)
	r.Equal("early", v)
}

func TestOneshotSecondSendIgnored(t *testing.T) {
	r := require.New(t)

	tx, rx := newOneshot[int]()
	tx.send(1)
	tx.send(2)

	v, ok := rx.Poll(NewContext(nil))
	r.True(ok)
	r.Equal(1, v)
}

func TestOneshotProducerDropped(t *testing.T) {
	r := require.New(t)

	tx, rx := newOneshot[int]()
	tx.drop()

	r.PanicsWithValue("moro: task abandoned before delivering its result", func() {
		rx.Poll(NewContext(nil))
	})
}

func TestOneshotSendAfterDropIgnored(t *testing.T) {
	r := require.New(t)

	tx, rx := newOneshot[int]()
	tx.drop()
	tx.send(1)

	r.Panics(func() { rx.Poll(NewContext(nil)) })
}

func TestOneshotDropAfterSendKeepsValue(t *testing.T) {
	r := require.New(t)

	tx, rx := newOneshot[int]()
	tx.send(9)
	tx.drop()

	v, ok := rx.Poll(NewContext(nil))
	r.True(ok)
	r.Equal(9, v)
}
