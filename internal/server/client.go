package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls both services over one connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// callOptions lets requests grow to what the server accepts; opts override it.
func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.MaxCallSendMsgSize(MaxRequestBytes)}, callOptions(opts)...)
}

func (c *Client) Extract(ctx context.Context, text string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/"+AutofillServiceName+"/Extract", wrapperspb.String(text), out, callOptions(opts)...)
	return out, err
}

func (c *Client) Resolve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/"+AutofillServiceName+"/Resolve", in, out, callOptions(opts)...)
	return out, err
}

func (c *Client) DeriveView(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/"+AutofillServiceName+"/DeriveView", in, out, callOptions(opts)...)
	return out, err
}

func (c *Client) Search(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/"+CatalogueServiceName+"/Search", in, out, callOptions(opts)...)
	return out, err
}

func (c *Client) ListPapers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, "/"+CatalogueServiceName+"/ListPapers", in, out, callOptions(opts)...)
	return out, err
}

func (c *Client) SetStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, "/"+CatalogueServiceName+"/SetStatus", in, new(emptypb.Empty), callOptions(opts)...)
}
