package tags

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/testutil"
)

type BridgeSuite struct {
	suite.Suite
	bridge *Bridge
	ctx    context.Context
}

func TestBridgeSuite(t *testing.T) {
	suite.Run(t, new(BridgeSuite))
}

func (s *BridgeSuite) SetupTest() {
	s.bridge = NewBridge(testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *BridgeSuite) mustRecord(p Payload) Record {
	record, err := EncodeRecord(p)
	s.Require().NoError(err)
	return record
}

func (s *BridgeSuite) TestScanReportDeliversPayload() {
	got := make(chan Payload, 1)
	cancel, err := s.bridge.Scan(s.ctx, func(p Payload) { got <- p }, func(error) {})
	s.Require().NoError(err)
	defer cancel()

	err = s.bridge.Report(s.mustRecord(Payload{PlayerID: "p1", Name: "Alice"}))
	s.Require().NoError(err)

	select {
	case p := <-got:
		s.Equal("p1", p.PlayerID)
	case <-time.After(time.Second):
		s.Fail("payload never delivered")
	}
}

func (s *BridgeSuite) TestScanStaysActiveAfterReport() {
	count := 0
	cancel, err := s.bridge.Scan(s.ctx, func(Payload) { count++ }, func(error) {})
	s.Require().NoError(err)
	defer cancel()

	record := s.mustRecord(Payload{PlayerID: "p1", Name: "Alice"})
	s.Require().NoError(s.bridge.Report(record))
	s.Require().NoError(s.bridge.Report(record))
	s.Equal(2, count)
}

func (s *BridgeSuite) TestReportWithoutScan() {
	err := s.bridge.Report(s.mustRecord(Payload{PlayerID: "p1", Name: "Alice"}))
	s.ErrorIs(err, model.ErrNoActiveScan)
}

func (s *BridgeSuite) TestReportMalformedRecord() {
	cancel, err := s.bridge.Scan(s.ctx, func(Payload) {}, func(error) {})
	s.Require().NoError(err)
	defer cancel()

	err = s.bridge.Report(Record{RecordType: "text", MediaType: MediaType})
	s.ErrorIs(err, model.ErrMalformedPayload)
}

func (s *BridgeSuite) TestCancelledScanIgnoresReport() {
	cancel, err := s.bridge.Scan(s.ctx, func(Payload) { s.Fail("delivered after cancel") }, func(error) {})
	s.Require().NoError(err)

	cancel()
	err = s.bridge.Report(s.mustRecord(Payload{PlayerID: "p1", Name: "Alice"}))
	s.ErrorIs(err, model.ErrNoActiveScan)

	// Cancel is idempotent
	cancel()
	s.Equal(OpIdle, s.bridge.State().Kind)
}

func (s *BridgeSuite) TestFailScanSurfacesReadError() {
	got := make(chan error, 1)
	cancel, err := s.bridge.Scan(s.ctx, func(Payload) {}, func(e error) { got <- e })
	s.Require().NoError(err)
	defer cancel()

	s.bridge.FailScan("reader exploded")

	select {
	case e := <-got:
		s.ErrorIs(e, model.ErrTransportRead)
	case <-time.After(time.Second):
		s.Fail("error never delivered")
	}
}

func (s *BridgeSuite) TestFailScanSuppressedAfterCancel() {
	cancel, err := s.bridge.Scan(s.ctx, func(Payload) {}, func(error) { s.Fail("error after cancel") })
	s.Require().NoError(err)

	cancel()
	s.bridge.FailScan("too late")
}

func (s *BridgeSuite) TestNewScanReplacesOldScan() {
	_, err := s.bridge.Scan(s.ctx, func(Payload) { s.Fail("replaced scan got payload") }, func(error) {})
	s.Require().NoError(err)

	got := make(chan Payload, 1)
	cancel, err := s.bridge.Scan(s.ctx, func(p Payload) { got <- p }, func(error) {})
	s.Require().NoError(err)
	defer cancel()

	s.Require().NoError(s.bridge.Report(s.mustRecord(Payload{PlayerID: "p2", Name: "Bob"})))
	s.Equal("p2", (<-got).PlayerID)
}

func (s *BridgeSuite) TestStaleCancelDoesNotTouchNewScan() {
	oldCancel, err := s.bridge.Scan(s.ctx, func(Payload) {}, func(error) {})
	s.Require().NoError(err)

	cancel, err := s.bridge.Scan(s.ctx, func(Payload) {}, func(error) {})
	s.Require().NoError(err)
	defer cancel()

	oldCancel()
	s.Equal(OpScan, s.bridge.State().Kind)
}

func (s *BridgeSuite) TestWriteConfirm() {
	done := make(chan error, 1)
	go func() {
		done <- s.bridge.Write(s.ctx, Payload{PlayerID: "p1", Name: "Alice"})
	}()

	s.Require().Eventually(func() bool {
		return s.bridge.State().Kind == OpWrite
	}, time.Second, time.Millisecond)

	state := s.bridge.State()
	s.Equal("p1", state.Payload.PlayerID)
	s.False(state.Clear)

	s.Require().NoError(s.bridge.Confirm())
	s.NoError(<-done)
	s.Equal(OpIdle, s.bridge.State().Kind)
}

func (s *BridgeSuite) TestWriteFail() {
	done := make(chan error, 1)
	go func() {
		done <- s.bridge.Write(s.ctx, Payload{PlayerID: "p1", Name: "Alice"})
	}()

	s.Require().Eventually(func() bool {
		return s.bridge.State().Kind == OpWrite
	}, time.Second, time.Millisecond)

	s.Require().NoError(s.bridge.FailWrite("tag yanked"))
	s.ErrorIs(<-done, model.ErrTransportWrite)
}

func (s *BridgeSuite) TestClearArmsBlankWrite() {
	done := make(chan error, 1)
	go func() {
		done <- s.bridge.Clear(s.ctx)
	}()

	s.Require().Eventually(func() bool {
		return s.bridge.State().Kind == OpWrite
	}, time.Second, time.Millisecond)

	s.True(s.bridge.State().Clear)
	s.Require().NoError(s.bridge.Confirm())
	s.NoError(<-done)
}

func (s *BridgeSuite) TestWriteReplacedResolvesAsCancelled() {
	done := make(chan error, 1)
	go func() {
		done <- s.bridge.Write(s.ctx, Payload{PlayerID: "p1", Name: "Alice"})
	}()

	s.Require().Eventually(func() bool {
		return s.bridge.State().Kind == OpWrite
	}, time.Second, time.Millisecond)

	cancel, err := s.bridge.Scan(s.ctx, func(Payload) {}, func(error) {})
	s.Require().NoError(err)
	defer cancel()

	s.ErrorIs(<-done, context.Canceled)
}

func (s *BridgeSuite) TestWriteContextCancellation() {
	ctx, cancelCtx := context.WithCancel(s.ctx)

	done := make(chan error, 1)
	go func() {
		done <- s.bridge.Write(ctx, Payload{PlayerID: "p1", Name: "Alice"})
	}()

	s.Require().Eventually(func() bool {
		return s.bridge.State().Kind == OpWrite
	}, time.Second, time.Millisecond)

	cancelCtx()
	s.ErrorIs(<-done, context.Canceled)

	s.Require().Eventually(func() bool {
		return s.bridge.State().Kind == OpIdle
	}, time.Second, time.Millisecond)

	s.ErrorIs(s.bridge.Confirm(), model.ErrNoActiveScan)
}

func (s *BridgeSuite) TestConfirmWithoutWrite() {
	s.ErrorIs(s.bridge.Confirm(), model.ErrNoActiveScan)
	s.ErrorIs(s.bridge.FailWrite("nothing pending"), model.ErrNoActiveScan)
}

func (s *BridgeSuite) TestSupported() {
	s.False(s.bridge.Supported(s.ctx))
	s.bridge.SetSupported(true)
	s.True(s.bridge.Supported(s.ctx))
}

func (s *BridgeSuite) TestOnChangeObservesTransitions() {
	states := make(chan State, 8)
	s.bridge.OnChange(func(st State) { states <- st })

	cancel, err := s.bridge.Scan(s.ctx, func(Payload) {}, func(error) {})
	s.Require().NoError(err)

	select {
	case st := <-states:
		s.Equal(OpScan, st.Kind)
	case <-time.After(time.Second):
		s.Fail("no state notification")
	}

	cancel()
	select {
	case st := <-states:
		s.Equal(OpIdle, st.Kind)
	case <-time.After(time.Second):
		s.Fail("no state notification")
	}
}
