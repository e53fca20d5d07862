package handlers

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gartstein/catalog/internal/catalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return lis
}

func TestServer_Handler(t *testing.T) {
	s := NewServer(50051, 8080, zaptest.NewLogger(t))
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	s.Use(mark("outer"), mark("inner"))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ":50051", s.grpcEndpoint)
	assert.Equal(t, ":8080", s.httpEndpoint)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	logger := zaptest.NewLogger(t)
	s := NewServer(0, 0, logger)
	require.NoError(t, s.RegisterRoutes(NewCompanyHandler(&mockCompanyController{
		listCompaniesFunc: func(context.Context) ([]models.Company, error) {
			return []models.Company{{Name: "Acme Corp"}}, nil
		},
	}, logger)))

	grpcLis, httpLis := listen(t), listen(t)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(ctx, grpcLis, httpLis)
	}()

	// health reports SERVING
	conn, err := grpc.NewClient(grpcLis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	checkCtx, checkCancel := context.WithTimeout(context.Background(), 5*time.Second)
	resp, err := healthpb.NewHealthClient(conn).Check(checkCtx, &healthpb.HealthCheckRequest{}, grpc.WaitForReady(true))
	checkCancel()
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	require.NoError(t, conn.Close())

	// REST routes are served over HTTP
	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	httpResp, err := client.Get("http://" + httpLis.Addr().String() + "/api/companies")
	require.NoError(t, err)
	body, err := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	transport.CloseIdleConnections()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, httpResp.StatusCode)
	assert.Contains(t, string(body), "Acme Corp")

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server to stop")
	}
}

func TestServer_StopBeforeCancel(t *testing.T) {
	s := NewServer(0, 0, zaptest.NewLogger(t))
	grpcLis, httpLis := listen(t), listen(t)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(context.Background(), grpcLis, httpLis)
	}()

	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Stop")
	}
}

func TestServer_StartListenError(t *testing.T) {
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer lis.Close()
	port := lis.Addr().(*net.TCPAddr).Port

	s := NewServer(port, 0, zaptest.NewLogger(t))
	err = s.Start(context.Background())
	assert.ErrorContains(t, err, "gRPC listen error")
}
