package task

import (
	"context"
	"errors"
	"net"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// SnapshotServiceName 快照服务名
	SnapshotServiceName = "intersection.v1.SnapshotService"
	// GetSnapshotProcedure 获取快照的RPC路径
	GetSnapshotProcedure = "/" + SnapshotServiceName + "/GetSnapshot"
)

// GetSnapshot 获取最近一次发布的快照
func (ctx *Context) GetSnapshot(
	_ context.Context, _ *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	st, err := ctx.Snapshot().ToStruct()
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(st), nil
}

// NewSnapshotServiceHandler 创建快照服务的HTTP处理器
// 返回：挂载路径与处理器
func NewSnapshotServiceHandler(ctx *Context, opts ...connect.HandlerOption) (string, http.Handler) {
	h := connect.NewUnaryHandler(GetSnapshotProcedure, ctx.GetSnapshot, opts...)
	mux := http.NewServeMux()
	mux.Handle(GetSnapshotProcedure, h)
	return "/" + SnapshotServiceName + "/", mux
}

// NewSnapshotClient 创建快照服务客户端
func NewSnapshotClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *connect.Client[emptypb.Empty, structpb.Struct] {
	return connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+GetSnapshotProcedure, opts...)
}

// Serve 在指定地址启动快照RPC服务
// 功能：后台监听，Close时关闭
// 返回：实际监听地址
func (ctx *Context) Serve(addr string) (string, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	mux := http.NewServeMux()
	mux.Handle(NewSnapshotServiceHandler(ctx))
	ctx.server = &http.Server{Handler: mux}
	go func() {
		if err := ctx.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("snapshot server: %v", err)
		}
	}()
	log.Infof("snapshot service listening on %s", lis.Addr())
	return lis.Addr().String(), nil
}
