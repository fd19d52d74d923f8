// 对外服务，基于connect提供JSON编码的RPC接口，并挂载其他HTTP处理器（如可视化推送）
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "server")

// jsonCodec connect的JSON编解码器
// 说明：RPC消息为普通Go结构体而非protobuf，替换connect默认的json编解码器
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Codec 返回客户端与服务端共用的编解码器选项
func Codec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

// Server HTTP服务
// 功能：统一承载RPC服务与其他HTTP处理器
type Server struct {
	mux  *http.ServeMux
	http *http.Server
}

// New 创建服务
// 参数：addr-监听地址
func New(addr string) *Server {
	mux := http.NewServeMux()
	return &Server{
		mux: mux,
		http: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler 获取底层的HTTP处理器
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Handle 挂载任意HTTP处理器
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Register 注册一个一元RPC方法，路径为/{service}/{method}
func Register[Req, Res any](
	s *Server, service, method string,
	unary func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
) {
	procedure := "/" + service + "/" + method
	s.mux.Handle(procedure, connect.NewUnaryHandler(procedure, unary, Codec()))
}

// Serve 启动服务，阻塞直到服务关闭
func (s *Server) Serve() error {
	log.Infof("listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close 优雅关闭服务
func (s *Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}
