package web

import (
	"bytes"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/fbxdoc/scene"
	"github.com/mogaika/fbxdoc/webutils"
)

func listFiles(fs billy.Filesystem, dir string, out []string) ([]string, error) {
	infos, err := fs.ReadDir(dir)
	if err != nil {
		return out, errors.Wrapf(err, "Failed to list %q", dir)
	}
	for _, fi := range infos {
		name := path.Join(dir, fi.Name())
		if fi.IsDir() {
			if out, err = listFiles(fs, name, out); err != nil {
				return out, err
			}
		} else if strings.EqualFold(path.Ext(name), ".fbx") {
			out = append(out, name)
		}
	}
	return out, nil
}

func fileVar(r *http.Request) (string, error) {
	file, err := url.PathUnescape(mux.Vars(r)["file"])
	if err != nil {
		return "", errors.Wrapf(err, "Invalid file name")
	}
	return file, nil
}

func (s *server) HandlerFiles(w http.ResponseWriter, r *http.Request) {
	files, err := listFiles(s.fs, "", nil)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	sort.Strings(files)
	if files == nil {
		files = []string{}
	}
	webutils.WriteJson(w, files)
}

// withDocument resolves {file} and runs f holding document lock
func (s *server) withDocument(w http.ResponseWriter, r *http.Request, f func(d *scene.Document)) {
	file, err := fileVar(r)
	if err != nil {
		webutils.WriteErrorCode(w, err, http.StatusBadRequest)
		return
	}
	if _, err := s.fs.Stat(file); err != nil {
		webutils.WriteErrorCode(w, errors.Errorf("File %q not found", file), http.StatusNotFound)
		return
	}
	if err := s.cache.With(file, func(d *scene.Document) error {
		f(d)
		return nil
	}); err != nil {
		log.Warnf("Error getting document %q: %v", file, err)
		webutils.WriteError(w, err)
	}
}

func (s *server) HandlerFile(w http.ResponseWriter, r *http.Request) {
	s.withDocument(w, r, func(d *scene.Document) {
		webutils.WriteJson(w, d.Summary())
	})
}

type treeNode struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Class    string      `json:"class"`
	SubClass string      `json:"subclass,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

// buildTree turns depth first walk into nested nodes
func buildTree(d *scene.Document) []*treeNode {
	var roots []*treeNode
	var stack []*treeNode
	d.Walk(func(o *scene.Object, depth int) bool {
		n := &treeNode{
			ID:       o.ID(),
			Name:     o.Name(),
			Class:    o.Class().String(),
			SubClass: o.SubClass().String(),
		}
		stack = append(stack[:depth], n)
		if depth == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[depth-1]
			parent.Children = append(parent.Children, n)
		}
		return true
	})
	return roots
}

func (s *server) HandlerTree(w http.ResponseWriter, r *http.Request) {
	s.withDocument(w, r, func(d *scene.Document) {
		webutils.WriteJson(w, buildTree(d))
	})
}

func objectVar(w http.ResponseWriter, r *http.Request, d *scene.Document) *scene.Object {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		webutils.WriteErrorCode(w, errors.Wrapf(err, "Invalid object id"), http.StatusBadRequest)
		return nil
	}
	o := d.FindObject(id)
	if o == nil {
		webutils.WriteErrorCode(w, errors.Errorf("Object %d not found", id), http.StatusNotFound)
	}
	return o
}

func (s *server) HandlerObject(w http.ResponseWriter, r *http.Request) {
	s.withDocument(w, r, func(d *scene.Document) {
		if o := objectVar(w, r, d); o != nil {
			webutils.WriteJson(w, o.Info())
		}
	})
}

// HandlerDumpObject returns object record in text form as it was read
func (s *server) HandlerDumpObject(w http.ResponseWriter, r *http.Request) {
	s.withDocument(w, r, func(d *scene.Document) {
		o := objectVar(w, r, d)
		if o == nil {
			return
		}
		if o.Node() == nil {
			webutils.WriteErrorCode(w, errors.Errorf("Object %d has no record", o.ID()), http.StatusNotFound)
			return
		}
		var buf bytes.Buffer
		if err := o.Node().WriteASCII(&buf); err != nil {
			webutils.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		webutils.WriteResult(w, buf.Bytes())
	})
}

type curveSample struct {
	Target string    `json:"target"`
	Kind   string    `json:"kind"`
	Value  []float64 `json:"value"`
}

type takeSample struct {
	Name    string        `json:"name"`
	Time    float64       `json:"time"`
	Start   float64       `json:"start"`
	Stop    float64       `json:"stop"`
	Samples []curveSample `json:"samples"`
}

// HandlerTake evaluates every curve node of take at ?t= seconds
func (s *server) HandlerTake(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["take"])
	if err != nil {
		webutils.WriteErrorCode(w, err, http.StatusBadRequest)
		return
	}
	t := 0.0
	if v := r.URL.Query().Get("t"); v != "" {
		if t, err = strconv.ParseFloat(v, 64); err != nil {
			webutils.WriteErrorCode(w, errors.Wrapf(err, "Invalid time"), http.StatusBadRequest)
			return
		}
	}

	s.withDocument(w, r, func(d *scene.Document) {
		stack := d.FindAnimationStack(name)
		if stack == nil {
			webutils.WriteErrorCode(w, errors.Errorf("Take %q not found", name), http.StatusNotFound)
			return
		}
		res := takeSample{Name: stack.Name(), Time: t, Samples: []curveSample{}}
		res.Start, res.Stop = stack.AnimationStack().TimeRange()
		for _, l := range stack.AnimationStack().Layers() {
			for _, cn := range l.AnimationLayer().CurveNodes() {
				acn := cn.AnimationCurveNode()
				sample := curveSample{Kind: acn.Kind.String()}
				if target := acn.Target(); target != nil {
					sample.Target = target.Name()
				}
				v := acn.EvaluateF3(t)
				if len(acn.Curves()) <= 1 {
					sample.Value = []float64{acn.EvaluateF1(t)}
				} else {
					sample.Value = v[:]
				}
				res.Samples = append(res.Samples, sample)
			}
		}
		webutils.WriteJson(w, res)
	})
}

func (s *server) HandlerDumpFile(w http.ResponseWriter, r *http.Request) {
	file, err := fileVar(r)
	if err != nil {
		webutils.WriteErrorCode(w, err, http.StatusBadRequest)
		return
	}
	f, err := s.fs.Open(file)
	if err != nil {
		webutils.WriteErrorCode(w, errors.Errorf("File %q not found", file), http.StatusNotFound)
		return
	}
	defer f.Close()
	webutils.WriteFile(w, f, path.Base(file))
}

// HandlerConvert returns file re-exported as binary or ascii
func (s *server) HandlerConvert(w http.ResponseWriter, r *http.Request) {
	format, err := scene.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		webutils.WriteErrorCode(w, err, http.StatusBadRequest)
		return
	}
	s.withDocument(w, r, func(d *scene.Document) {
		var buf bytes.Buffer
		if err := d.Write(&buf, format); err != nil {
			webutils.WriteError(w, err)
			return
		}
		file, _ := fileVar(r)
		name := strings.TrimSuffix(path.Base(file), path.Ext(file)) + "." + format.String() + ".fbx"
		webutils.WriteFile(w, &buf, name)
	})
}
