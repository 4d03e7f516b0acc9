package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoopGroupSignalsWhenBothFinish(t *testing.T) {
	g := NewLoopGroup()

	g.BufferingFinished()
	select {
	case <-g.Done():
		t.Fatal("signal fired with the display loop still running")
	default:
	}
	assert.True(t, g.BufferingDone())

	g.DisplayFinished()
	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("signal never fired")
	}
}

func TestLoopGroupJoinTimeout(t *testing.T) {
	g := NewLoopGroup()
	g.BufferingFinished()

	assert.False(t, g.JoinTimeout(30*time.Millisecond))

	g.DisplayFinished()
	assert.True(t, g.JoinTimeout(30*time.Millisecond))
}

func TestLoopGroupIdempotentMarks(t *testing.T) {
	g := NewLoopGroup()
	g.BufferingFinished()
	g.BufferingFinished()
	g.DisplayFinished()
	g.DisplayFinished() // double close would panic here
	assert.True(t, g.JoinTimeout(time.Millisecond))
}

func TestLoopGroupReset(t *testing.T) {
	g := NewLoopGroup()
	g.BufferingFinished()
	g.DisplayFinished()

	g.Reset()
	assert.False(t, g.BufferingDone())
	assert.False(t, g.JoinTimeout(10*time.Millisecond))
}
