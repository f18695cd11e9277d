package mcptool

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/DocStoreAPI/internal/rag"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

// Version is the MCP server version.
const Version = "1.0.0"

// Server exposes the document store to MCP clients.
type Server struct {
	store  rag.Store
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(store rag.Store) *Server {
	impl := &mcp.Implementation{
		Name:    "docstore",
		Version: Version,
	}

	s := &Server{
		store:  store,
		server: mcp.NewServer(impl, nil),
		logger: logger_i.NewLogger("MCP"),
	}

	s.registerTools()

	return s
}

// HTTPHandler returns the streamable HTTP transport for mounting on the main
// router.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
