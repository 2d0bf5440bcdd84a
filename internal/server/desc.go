package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Messages use the well-known Struct/StringValue types so the services need
// no generated code; the field layout of each Struct is documented on the
// handler.

const (
	AutofillServiceName  = "papers.v1.AutofillService"
	CatalogueServiceName = "papers.v1.CatalogueService"
)

type AutofillServer interface {
	Extract(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Resolve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeriveView(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type CatalogueServer interface {
	Search(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPapers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetStatus(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// unary builds a grpc.MethodDesc for a handler taking Req.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	full := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var AutofillServiceDesc = grpc.ServiceDesc{
	ServiceName: AutofillServiceName,
	HandlerType: (*AutofillServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AutofillServiceName, "Extract", AutofillServer.Extract),
		unary(AutofillServiceName, "Resolve", AutofillServer.Resolve),
		unary(AutofillServiceName, "DeriveView", AutofillServer.DeriveView),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "papers/v1/autofill.proto",
}

var CatalogueServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogueServiceName,
	HandlerType: (*CatalogueServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(CatalogueServiceName, "Search", CatalogueServer.Search),
		unary(CatalogueServiceName, "ListPapers", CatalogueServer.ListPapers),
		unary(CatalogueServiceName, "SetStatus", CatalogueServer.SetStatus),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "papers/v1/catalogue.proto",
}
