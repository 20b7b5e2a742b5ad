package grpc

// proto.go defines the gRPC server interface derived from dhanraksha/risk/v1/risk.proto.
// This file serves as a stand-in for buf-generated code. Once `buf generate` is run,
// replace this file with the import from github.com/AasthaThakker/DhanRaksha-sub001/api/gen/go/dhanraksha/risk/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	EvaluateLogin(context.Context, *EvaluateLoginRequest) (*EvaluateLoginResponse, error)
	EvaluateTransaction(context.Context, *EvaluateTransactionRequest) (*EvaluateTransactionResponse, error)
	GetUserRisk(context.Context, *GetUserRiskRequest) (*GetUserRiskResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) EvaluateLogin(context.Context, *EvaluateLoginRequest) (*EvaluateLoginResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateLogin not implemented")
}
func (UnimplementedRiskServiceServer) EvaluateTransaction(context.Context, *EvaluateTransactionRequest) (*EvaluateTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EvaluateTransaction not implemented")
}
func (UnimplementedRiskServiceServer) GetUserRisk(context.Context, *GetUserRiskRequest) (*GetUserRiskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetUserRisk not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s *grpclib.Server, srv RiskServiceServer) {
	s.RegisterService(&_RiskService_serviceDesc, srv)
}

var _RiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "dhanraksha.risk.v1.RiskService",
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "EvaluateLogin", Handler: _RiskService_EvaluateLogin_Handler},
		{MethodName: "EvaluateTransaction", Handler: _RiskService_EvaluateTransaction_Handler},
		{MethodName: "GetUserRisk", Handler: _RiskService_GetUserRisk_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _RiskService_EvaluateLogin_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(EvaluateLoginRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).EvaluateLogin(ctx, req)
}

func _RiskService_EvaluateTransaction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(EvaluateTransactionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).EvaluateTransaction(ctx, req)
}

func _RiskService_GetUserRisk_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetUserRiskRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).GetUserRisk(ctx, req)
}
