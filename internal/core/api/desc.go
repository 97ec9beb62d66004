package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Service and method names. Messages are protobuf well-known types, so no
// generated stubs are needed.
const (
	ServiceName      = "stepgrammar.v1.StepGrammar"
	MatchMethod      = "/" + ServiceName + "/Match"
	MatchBatchMethod = "/" + ServiceName + "/MatchBatch"
)

// StepGrammarServer is the server API for the StepGrammar service.
type StepGrammarServer interface {
	// Match matches one sentence and returns the result as a Struct.
	Match(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// MatchBatch matches a list of sentences, preserving order.
	MatchBatch(context.Context, *structpb.ListValue) (*structpb.ListValue, error)
}

// RegisterStepGrammarServer registers srv on s.
func RegisterStepGrammarServer(s grpc.ServiceRegistrar, srv StepGrammarServer) {
	s.RegisterService(&serviceDesc, srv)
}

func matchHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StepGrammarServer).Match(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StepGrammarServer).Match(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func matchBatchHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StepGrammarServer).MatchBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchBatchMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StepGrammarServer).MatchBatch(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StepGrammarServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Match", Handler: matchHandler},
		{MethodName: "MatchBatch", Handler: matchBatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stepgrammar/v1/stepgrammar.proto",
}

// Client calls a remote StepGrammar service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Match sends one sentence.
func (c *Client) Match(ctx context.Context, sentence string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MatchMethod, wrapperspb.String(sentence), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// MatchBatch sends sentences in one call.
func (c *Client) MatchBatch(ctx context.Context, sentences []string, opts ...grpc.CallOption) ([]*structpb.Struct, error) {
	in := &structpb.ListValue{Values: make([]*structpb.Value, len(sentences))}
	for i, s := range sentences {
		in.Values[i] = structpb.NewStringValue(s)
	}
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, MatchBatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	results := make([]*structpb.Struct, len(out.Values))
	for i, v := range out.Values {
		results[i] = v.GetStructValue()
	}
	return results, nil
}
