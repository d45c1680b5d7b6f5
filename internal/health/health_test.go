package health

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type mockPinger struct{ mock.Mock }

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called().Error(0)
}

func status(t *testing.T, m *Monitor, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := m.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestMonitorCheck(t *testing.T) {
	log, _ := test.NewNullLogger()
	p := new(mockPinger)
	p.On("Ping").Return(nil).Once()
	p.On("Ping").Return(errors.New("connection refused")).Once()

	m := NewMonitor(p, time.Second, log)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, Service))

	m.Check(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, m, Service))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, m, ""))

	m.Check(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, Service))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, ""))
	p.AssertExpectations(t)
}

func TestMonitorLogsTransitionsOnce(t *testing.T) {
	log, hook := test.NewNullLogger()
	p := new(mockPinger)
	p.On("Ping").Return(errors.New("down"))

	m := NewMonitor(p, time.Second, log)
	m.Check(context.Background())
	m.Check(context.Background())
	m.Check(context.Background())

	// already NOT_SERVING from construction, so nothing is a transition
	assert.Empty(t, hook.AllEntries())
}

func TestMonitorOverGRPC(t *testing.T) {
	log, _ := test.NewNullLogger()
	p := new(mockPinger)
	p.On("Ping").Return(nil)

	m := NewMonitor(p, 50*time.Millisecond, log)
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	m.Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	client := healthpb.NewHealthClient(conn)

	require.Eventually(t, func() bool {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: Service})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: Service})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}
