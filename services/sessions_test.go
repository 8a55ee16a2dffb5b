package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStartAndGet(t *testing.T) {
	m := NewSessionManager(time.Hour)

	session := m.Start()
	require.NotEmpty(t, session.Token)
	assert.Equal(t, StepBasicInfo, session.Wizard.Step())
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(session.Token)
	require.True(t, ok)
	assert.Same(t, session, got)
}

func TestSessionGetUnknownToken(t *testing.T) {
	m := NewSessionManager(time.Hour)
	_, ok := m.Get("nope")
	assert.False(t, ok)
}

func TestSessionTokensAreUnique(t *testing.T) {
	m := NewSessionManager(time.Hour)
	a := m.Start()
	b := m.Start()
	assert.NotEqual(t, a.Token, b.Token)
	assert.Equal(t, 2, m.Count())
}

func TestSessionAbandonDiscardsDraft(t *testing.T) {
	m := NewSessionManager(time.Hour)
	session := m.Start()
	session.Wizard.Draft().Title = "Leak"

	m.Abandon(session.Token)
	assert.Equal(t, 0, m.Count())
	_, ok := m.Get(session.Token)
	assert.False(t, ok)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	m := NewSessionManager(30 * time.Minute)
	idle := m.Start()
	active := m.Start()

	// Simulate time passing; the active session is touched afterwards.
	base := time.Now()
	m.now = func() time.Time { return base.Add(time.Hour) }
	_, ok := m.Get(active.Token)
	require.True(t, ok)

	removed := m.SweepExpired()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Count())

	_, ok = m.Get(idle.Token)
	assert.False(t, ok)
	_, ok = m.Get(active.Token)
	assert.True(t, ok)
}

func TestSweepRemovesCompletedWizards(t *testing.T) {
	m := NewSessionManager(time.Hour)
	session := m.Start()

	w := session.Wizard
	fillBasicInfo(w)
	require.NoError(t, w.Next(context.Background(), nil))
	fillDetails(w)
	require.NoError(t, w.Next(context.Background(), nil))
	require.NoError(t, w.Next(context.Background(), nil))
	require.NoError(t, w.Next(context.Background(), &stubSubmitter{result: &SubmissionResult{RequestID: "MR-1"}}))

	removed := m.SweepExpired()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, m.Count())
}

func TestSweepKeepsFreshSessions(t *testing.T) {
	m := NewSessionManager(time.Hour)
	m.Start()
	m.Start()

	assert.Zero(t, m.SweepExpired())
	assert.Equal(t, 2, m.Count())
}
