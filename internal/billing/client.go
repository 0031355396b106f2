package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"careline/pkg/sentinel"
)

const createBillingAccountMethod = "/billing.BillingService/CreateBillingAccount"

// Client is the synchronous billing collaborator used by the patient write
// path. Each call is a single blocking RPC with its own bounded timeout; a
// failure or timeout surfaces as sentinel.ErrBillingUnavailable and is never
// retried here.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient dials the billing service. Transport is plaintext in this
// deployment.
func NewClient(addr string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(wireCodec{})),
	)
	if err != nil {
		return nil, fmt.Errorf("dial billing service: %w", err)
	}
	return &Client{conn: conn, timeout: timeout, logger: logger}, nil
}

// NewClientWithConn wraps an existing connection; tests use this with an
// in-memory listener.
func NewClientWithConn(conn *grpc.ClientConn, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{conn: conn, timeout: timeout, logger: logger}
}

func (c *Client) CreateAccount(ctx context.Context, patientID, name, email string) (AccountResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &AccountRequest{PatientID: patientID, Name: name, Email: email}
	resp := &AccountResponse{}
	if err := c.conn.Invoke(ctx, createBillingAccountMethod, req, resp, grpc.ForceCodec(wireCodec{})); err != nil {
		return AccountResponse{}, fmt.Errorf("%w: %v", sentinel.ErrBillingUnavailable, err)
	}

	c.logger.InfoContext(ctx, "billing account created",
		"patient_id", patientID, "account_id", resp.AccountID, "status", resp.Status)
	return *resp, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
