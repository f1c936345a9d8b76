package web

import (
	"net/http"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/fbxdoc/fbx/cache"
	"github.com/mogaika/fbxdoc/utils"
)

var log = utils.Log("web")

type server struct {
	fs    billy.Filesystem
	cache *cache.Cache
}

// NewRouter serves fbx files found in fs
func NewRouter(fs billy.Filesystem) *mux.Router {
	s := &server{fs: fs, cache: cache.NewCache(fs)}

	r := mux.NewRouter()
	// file names may contain escaped slashes
	r.UseEncodedPath()
	r.HandleFunc("/json/files", s.HandlerFiles).Methods(http.MethodGet)
	r.HandleFunc("/json/file/{file}", s.HandlerFile).Methods(http.MethodGet)
	r.HandleFunc("/json/file/{file}/tree", s.HandlerTree).Methods(http.MethodGet)
	r.HandleFunc("/json/file/{file}/object/{id:-?[0-9]+}", s.HandlerObject).Methods(http.MethodGet)
	r.HandleFunc("/json/file/{file}/take/{take}", s.HandlerTake).Methods(http.MethodGet)
	r.HandleFunc("/dump/file/{file}", s.HandlerDumpFile).Methods(http.MethodGet)
	r.HandleFunc("/dump/file/{file}/object/{id:-?[0-9]+}", s.HandlerDumpObject).Methods(http.MethodGet)
	r.HandleFunc("/convert/file/{file}/{format}", s.HandlerConvert).Methods(http.MethodGet)
	return r
}

func StartServer(addr string, fs billy.Filesystem) error {
	r := NewRouter(fs)

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Infof("Starting server %v at %v", addr, fs.Root())

	return http.ListenAndServe(addr, h)
}
