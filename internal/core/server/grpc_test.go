package server

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/solatis/stepgrammar/internal/core/api"
	"github.com/solatis/stepgrammar/internal/core/auth"
	"github.com/solatis/stepgrammar/internal/core/config"
	"github.com/solatis/stepgrammar/internal/grammar"
	"github.com/solatis/stepgrammar/internal/rules"
)

var (
	testTokenID = "0123456789abcdef0123456789abcdef"
	testSecret  = []byte("testsecret1234567890abcdefghijklmnop")
)

// startServer serves over an in-memory listener and returns a connected client.
func startServer(t *testing.T, authenticator *auth.Authenticator) *grpc.ClientConn {
	t.Helper()

	reg, err := grammar.NewRegistry(rules.Options{})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	cfg := config.Default().Server
	svc, err := api.NewStepGrammarService(rules.NewEngine(reg, nil), nil, cfg, nil)
	if err != nil {
		t.Fatalf("NewStepGrammarService failed: %v", err)
	}
	srv, err := NewGRPCServer(cfg, svc, authenticator, nil)
	if err != nil {
		t.Fatalf("NewGRPCServer failed: %v", err)
	}

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestNewGRPCServerNilService(t *testing.T) {
	if _, err := NewGRPCServer(config.Default().Server, nil, nil, nil); err == nil {
		t.Error("expected error for nil service")
	}
}

func TestMatchOverGRPC(t *testing.T) {
	client := api.NewClient(startServer(t, nil))
	ctx := context.Background()

	out, err := client.Match(ctx, "Verify the API response status is 200")
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if got := out.GetFields()["ruleId"].GetStringValue(); got != "api-verify-status" {
		t.Errorf("ruleId = %q, want api-verify-status", got)
	}
	if got := out.GetFields()["expectedValue"].GetStringValue(); got != "200" {
		t.Errorf("expectedValue = %q, want 200", got)
	}

	results, err := client.MatchBatch(ctx, []string{"Click 'Submit'", "Do something entirely unsupported"})
	if err != nil {
		t.Fatalf("MatchBatch failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if got := results[1].GetFields()["status"].GetStringValue(); got != "unmatched" {
		t.Errorf("status = %q, want unmatched", got)
	}
}

func TestAuthOverGRPC(t *testing.T) {
	conn := startServer(t, auth.NewAuthenticator(map[string][]byte{testTokenID: testSecret}))
	client := api.NewClient(conn)

	_, err := client.Match(context.Background(), "Click 'Submit'")
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("no key code = %v, want Unauthenticated", status.Code(err))
	}

	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-api-key", auth.FormatAPIKey(testTokenID, testSecret))
	if _, err := client.Match(ctx, "Click 'Submit'"); err != nil {
		t.Errorf("Match with key failed: %v", err)
	}

	health := grpc_health_v1.NewHealthClient(conn)
	resp, err := health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		t.Fatalf("health Check failed: %v", err)
	}
	if resp.Status != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("health status = %v, want SERVING", resp.Status)
	}
}
