package billing

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server is the interface the billing service implements. The ServiceDesc
// below is declared by hand against the billing.proto contract.
type Server interface {
	CreateBillingAccount(ctx context.Context, req *AccountRequest) (*AccountResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "billing.BillingService",
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateBillingAccount",
			Handler:    createBillingAccountHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "billing.proto",
}

func createBillingAccountHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AccountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).CreateBillingAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: createBillingAccountMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(Server).CreateBillingAccount(ctx, req.(*AccountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// NewGRPCServer returns a grpc server wired with the billing wire codec.
func NewGRPCServer() *grpc.Server {
	return grpc.NewServer(grpc.ForceServerCodec(wireCodec{}))
}

// Register attaches a billing implementation to a grpc server.
func Register(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&serviceDesc, srv)
}

// AccountIssuer is the minimal billing implementation: it opens one ACTIVE
// account per patient and keeps an in-memory ledger. Durable billing-side
// storage belongs to the real billing system, not this service.
type AccountIssuer struct {
	mu       sync.Mutex
	accounts map[string]string // patient ID -> account ID
	logger   *slog.Logger
}

func NewAccountIssuer(logger *slog.Logger) *AccountIssuer {
	return &AccountIssuer{accounts: make(map[string]string), logger: logger}
}

func (s *AccountIssuer) CreateBillingAccount(ctx context.Context, req *AccountRequest) (*AccountResponse, error) {
	if req.PatientID == "" || req.Email == "" {
		return nil, status.Error(codes.InvalidArgument, "patient id and email are required")
	}

	s.mu.Lock()
	accountID, ok := s.accounts[req.PatientID]
	if !ok {
		accountID = uuid.NewString()
		s.accounts[req.PatientID] = accountID
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "billing account request",
		"patient_id", req.PatientID, "account_id", accountID, "reused", ok)
	return &AccountResponse{AccountID: accountID, Status: "ACTIVE"}, nil
}
