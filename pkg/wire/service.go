package wire

import (
	"context"

	"google.golang.org/grpc"

	"github.com/Ckuran148/Jolt/pkg/types"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "jolt.v1.ReportService"
	// SendReportMethod is the full method path used by interceptors.
	SendReportMethod = "/" + ServiceName + "/SendReport"
)

// SendReportResponse acknowledges one report.
type SendReportResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ReportServiceServer is implemented by the server's receiver.
type ReportServiceServer interface {
	SendReport(context.Context, *types.StoreReport) (*SendReportResponse, error)
}

// RegisterReportServiceServer attaches srv to a gRPC server.
func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportServiceDesc, srv)
}

// ReportServiceDesc describes ReportService for grpc.Server.
var ReportServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendReport", Handler: sendReportHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jolt/v1/report",
}

func sendReportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(types.StoreReport)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServiceServer).SendReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SendReportMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReportServiceServer).SendReport(ctx, req.(*types.StoreReport))
	}
	return interceptor(ctx, in, info, handler)
}

// ReportServiceClient sends reports to the server.
type ReportServiceClient interface {
	SendReport(ctx context.Context, in *types.StoreReport, opts ...grpc.CallOption) (*SendReportResponse, error)
}

type reportServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewReportServiceClient wraps cc. Every call uses the JSON codec.
func NewReportServiceClient(cc grpc.ClientConnInterface) ReportServiceClient {
	return &reportServiceClient{cc: cc}
}

func (c *reportServiceClient) SendReport(ctx context.Context, in *types.StoreReport, opts ...grpc.CallOption) (*SendReportResponse, error) {
	out := new(SendReportResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, SendReportMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
