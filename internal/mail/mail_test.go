package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-api/config"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Send(ctx context.Context, subject, message string) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	svc, err := New(config.Mail{Driver: "local"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &LocalMailService{}, svc)

	svc, err = New(config.Mail{Driver: "cloud"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &CloudMailService{}, svc)

	_, err = New(config.Mail{Driver: "pigeon"}, discardLogger())
	assert.Error(t, err)
}

func TestLocalMailService_Send(t *testing.T) {
	var buf bytes.Buffer
	svc := NewLocalMailService("noreply@cityinfo.local", "admin@cityinfo.local", slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, svc.Send(context.Background(), "Point of interest deleted.", "Point of interest Central Park with id 1 was deleted."))
	assert.Contains(t, buf.String(), "admin@cityinfo.local")
	assert.Contains(t, buf.String(), "Point of interest Central Park with id 1 was deleted.")
}

func TestCloudMailService_Send(t *testing.T) {
	cfg := config.Mail{
		Driver: "cloud",
		From:   "noreply@cityinfo.local",
		To:     "admin@cityinfo.local",
		SMTP:   config.SMTP{Host: "smtp.example.com", Port: 587, Username: "user", Password: "pass"},
	}
	svc := NewCloudMailService(cfg, discardLogger())

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		assert.NotNil(t, a)
		assert.Equal(t, "noreply@cityinfo.local", from)
		return nil
	}

	require.NoError(t, svc.Send(context.Background(), "Subject line", "Body text"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"admin@cityinfo.local"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Subject line\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nBody text")

	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	err := svc.Send(context.Background(), "Subject line", "Body text")
	assert.ErrorContains(t, err, "connection refused")
}

func TestNotifier_DeliversInBackground(t *testing.T) {
	svc := new(MockService)
	svc.On("Send", mock.Anything, "Point of interest deleted.", "Point of interest X with id 7 was deleted.").Return(nil).Once()

	n := NewNotifier(svc, 2, discardLogger())
	id := n.Notify("Point of interest deleted.", "Point of interest X with id 7 was deleted.")
	assert.NotEqual(t, uuid.Nil, id)

	require.NoError(t, n.Wait(context.Background()))
	svc.AssertExpectations(t)
}

func TestNotifier_FailureIsSwallowed(t *testing.T) {
	svc := new(MockService)
	svc.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	n := NewNotifier(svc, 1, discardLogger())
	n.Notify("s", "m")
	require.NoError(t, n.Wait(context.Background()))
	svc.AssertNumberOfCalls(t, "Send", 1)
}

type blockingService struct {
	release  chan struct{}
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	sent     int
}

func (s *blockingService) Send(ctx context.Context, _, _ string) error {
	cur := s.inFlight.Add(1)
	for {
		peak := s.peak.Load()
		if cur <= peak || s.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	<-s.release
	s.inFlight.Add(-1)
	s.mu.Lock()
	s.sent++
	s.mu.Unlock()
	return nil
}

func TestNotifier_BoundsConcurrency(t *testing.T) {
	svc := &blockingService{release: make(chan struct{})}
	n := NewNotifier(svc, 2, discardLogger())

	for i := 0; i < 6; i++ {
		n.Notify("s", "m")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, n.Wait(ctx), context.DeadlineExceeded)

	close(svc.release)
	require.NoError(t, n.Wait(context.Background()))
	assert.LessOrEqual(t, svc.peak.Load(), int32(2))
	assert.Equal(t, 6, svc.sent)
}
