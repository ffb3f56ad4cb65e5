package app

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yzgyyang/portcran/internal/types"
)

const carDataMakefile = "# Created by: Joe Example <joe@example.org>\n" +
	"# $FreeBSD$\n" +
	"\n" +
	"PORTNAME=\tcarData\n" +
	"DISTVERSION=\t3.0-5\n" +
	"CATEGORIES=\tmath\n" +
	"DISTNAME=\t${PORTNAME}_${DISTVERSION}\n" +
	"\n" +
	"MAINTAINER=\tjoe@example.org\n" +
	"COMMENT=\tCompanion to Applied Regression Data Sets\n" +
	"\n" +
	"LICENSE=\tGPLv2+\n" +
	"\n" +
	"USES=\t\tcran:auto-plist\n" +
	"\n" +
	"NO_ARCH=\tyes\n" +
	"\n" +
	".include <bsd.port.mk>\n"

const carDescription = "Package: car\n" +
	"Version: 3.1-0\n" +
	"Title: Companion to Applied Regression\n" +
	"Depends: R (>= 3.5.0), carData (>= 3.0-0)\n" +
	"Imports: stats, MASS\n" +
	"Suggests: knitr\n" +
	"Author: John Fox [aut, cre],\n" +
	"    Sanford Weisberg [aut]\n" +
	"License: GPL (>= 2)\n" +
	"NeedsCompilation: no\n"

const carMakefile = "# Created by: Joe Example <joe@example.org>\n" +
	"# $FreeBSD$\n" +
	"\n" +
	"PORTNAME=\tcar\n" +
	"DISTVERSION=\t3.1-0\n" +
	"CATEGORIES=\tmath\n" +
	"DISTNAME=\t${PORTNAME}_${DISTVERSION}\n" +
	"\n" +
	"MAINTAINER=\tports@FreeBSD.org\n" +
	"COMMENT=\tCompanion to Applied Regression\n" +
	"\n" +
	"LICENSE=\tGPLv2+\n" +
	"\n" +
	"RUN_DEPENDS=\tR-cran-carData>=3.0.0:math/R-cran-carData\n" +
	"\n" +
	"USES=\t\tcran:auto-plist\n" +
	"\n" +
	"NO_ARCH=\tyes\n" +
	"\n" +
	".include <bsd.port.mk>\n"

type recordingChecksum struct {
	dirs []string
}

func (r *recordingChecksum) Makesum(_ context.Context, dir string) error {
	r.dirs = append(r.dirs, dir)
	return nil
}

type recordingRenderer struct {
	dot string
}

func (r *recordingRenderer) RenderSVG(_ context.Context, dot string, w io.Writer) error {
	r.dot = dot
	_, err := io.WriteString(w, "<svg/>")
	return err
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeDistfile(t *testing.T, path string, files map[string]string) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(content))}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

// newTestTree lays out a ports tree holding R-cran-carData, with
// R-cran-car listed but not created yet.
func newTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Makefile"), "SUBDIR += math\n")
	writeFile(t, filepath.Join(root, "math", "Makefile"), "SUBDIR += R-cran-car\nSUBDIR += R-cran-carData\n")
	writeFile(t, filepath.Join(root, "math", "R-cran-carData", "Makefile"), carDataMakefile)
	return root
}

func newTestService() (Service, *recordingChecksum, *recordingRenderer) {
	checksum := &recordingChecksum{}
	renderer := &recordingRenderer{}
	service := NewService()
	service.Platform = types.Platform{Address: "joe@example.org", FullName: "Joe Example"}
	service.Checksum = checksum
	service.Renderer = renderer
	return service, checksum, renderer
}

func createCar(t *testing.T, service Service, root string, req CreateRequest) CreateResult {
	t.Helper()
	distfile := filepath.Join(t.TempDir(), "car_3.1-0.tar.gz")
	writeDistfile(t, distfile, map[string]string{"car/DESCRIPTION": carDescription})
	req.PortsDir = root
	req.Name = "car"
	req.Distfile = distfile
	result, err := service.CreateCran(t.Context(), req)
	require.NoError(t, err)
	return result
}

func TestCreateCran(t *testing.T) {
	root := newTestTree(t)
	service, checksum, _ := newTestService()
	dir := filepath.Join(root, "math", "R-cran-car")
	writeFile(t, filepath.Join(dir, "pkg-plist"), "lib/R/library/car/DESCRIPTION\n")

	result := createCar(t, service, root, CreateRequest{Makesum: true})
	assert.True(t, result.Written)
	assert.False(t, result.Updated)
	assert.Equal(t, "math/R-cran-car", result.Origin)
	assert.Equal(t, dir, result.Dir)
	if diff := cmp.Diff(carMakefile, result.Makefile); diff != "" {
		t.Fatalf("unexpected Makefile (-want +got):\n%s", diff)
	}

	written, err := os.ReadFile(filepath.Join(dir, "Makefile"))
	require.NoError(t, err)
	assert.Equal(t, carMakefile, string(written))
	_, err = os.Stat(filepath.Join(dir, "pkg-plist"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, []string{dir}, checksum.dirs)
}

func TestCreateCranUpdateKeepsMaintainerAndHeader(t *testing.T) {
	root := newTestTree(t)
	service, _, _ := newTestService()
	dir := filepath.Join(root, "math", "R-cran-car")
	existing := strings.Replace(carMakefile, "ports@FreeBSD.org", "someone@example.org", 1)
	existing = strings.Replace(existing, "DISTVERSION=\t3.1-0", "DISTVERSION=\t3.0-0", 1)
	existing = strings.Replace(existing, "Joe Example <joe@example.org>", "Some One <someone@example.org>", 1)
	writeFile(t, filepath.Join(dir, "Makefile"), existing)

	result := createCar(t, service, root, CreateRequest{RequireExisting: true})
	assert.True(t, result.Written)
	assert.True(t, result.Updated)
	want := strings.Replace(carMakefile, "ports@FreeBSD.org", "someone@example.org", 1)
	want = strings.Replace(want, "Joe Example <joe@example.org>", "Some One <someone@example.org>", 1)
	if diff := cmp.Diff(want, result.Makefile); diff != "" {
		t.Fatalf("unexpected Makefile (-want +got):\n%s", diff)
	}
}

func TestCreateCranDryRun(t *testing.T) {
	root := newTestTree(t)
	service, checksum, _ := newTestService()

	result := createCar(t, service, root, CreateRequest{DryRun: true, Makesum: true})
	assert.False(t, result.Written)
	assert.Equal(t, carMakefile, result.Makefile)
	_, err := os.Stat(filepath.Join(root, "math", "R-cran-car", "Makefile"))
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, checksum.dirs)
}

func TestCreateCranErrors(t *testing.T) {
	root := newTestTree(t)
	service, _, _ := newTestService()

	_, err := service.CreateCran(t.Context(), CreateRequest{PortsDir: root, Distfile: "x.tar.gz"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = service.CreateCran(t.Context(), CreateRequest{PortsDir: root, Name: "car"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distfile is required")

	distfile := filepath.Join(t.TempDir(), "zoo_1.0.tar.gz")
	writeDistfile(t, distfile, map[string]string{"zoo/DESCRIPTION": "Package: zoo\nVersion: 1.0\n"})
	_, err = service.CreateCran(t.Context(), CreateRequest{PortsDir: root, Name: "zoo", Distfile: distfile, RequireExisting: true})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = service.CreateCran(t.Context(), CreateRequest{PortsDir: root, Name: "car", Distfile: distfile})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestShow(t *testing.T) {
	root := newTestTree(t)
	service, _, _ := newTestService()
	createCar(t, service, root, CreateRequest{})

	result, err := service.Show(t.Context(), ShowRequest{PortsDir: root, Origin: "math/R-cran-car"})
	require.NoError(t, err)
	assert.Equal(t, "math/R-cran-car", result.Origin)
	assert.Equal(t, carMakefile, result.Makefile)

	result, err = service.Show(t.Context(), ShowRequest{PortsDir: root, Name: "R-cran-carData"})
	require.NoError(t, err)
	assert.Equal(t, carDataMakefile, result.Makefile)

	_, err = service.Show(t.Context(), ShowRequest{PortsDir: root})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestCheck(t *testing.T) {
	root := newTestTree(t)
	service, _, _ := newTestService()
	createCar(t, service, root, CreateRequest{})

	result, err := service.Check(t.Context(), CheckRequest{PortsDir: root})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, []string{"math/R-cran-car", "math/R-cran-carData"}, result.Clean)
	assert.Empty(t, result.Drifted)
	assert.Empty(t, result.Failed)

	drifted := strings.Replace(carDataMakefile, "PORTNAME=\tcarData", "PORTNAME=carData", 1)
	writeFile(t, filepath.Join(root, "math", "R-cran-carData", "Makefile"), drifted)
	writeFile(t, filepath.Join(root, "math", "R-cran-car", "Makefile"), carMakefile+"WRKSRC=\t${WRKDIR}/car\n")

	result, err = service.Check(t.Context(), CheckRequest{PortsDir: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"math/R-cran-carData"}, result.Drifted)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "math/R-cran-car", result.Failed[0].Origin)
	assert.Contains(t, result.Failed[0].Error, "unloaded variables")

	result, err = service.Check(t.Context(), CheckRequest{PortsDir: root, Origins: []string{"math/R-cran-carData"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
}

func TestResolve(t *testing.T) {
	root := newTestTree(t)
	service, _, _ := newTestService()
	createCar(t, service, root, CreateRequest{})

	result, err := service.Resolve(t.Context(), ResolveRequest{PortsDir: root, Name: "R-cran-car"})
	require.NoError(t, err)
	assert.Equal(t, "R-cran-car", result.PkgName)
	assert.Equal(t, "3.1-0", result.Version)
	want := []ResolvedDependency{{Category: "RUN_DEPENDS", Target: "R-cran-carData>=3.0.0", Origin: "math/R-cran-carData"}}
	if diff := cmp.Diff(want, result.Dependencies); diff != "" {
		t.Fatalf("unexpected dependencies (-want +got):\n%s", diff)
	}

	unsatisfied := strings.Replace(carMakefile, "R-cran-carData>=3.0.0", "R-cran-carData>=4.0", 1)
	writeFile(t, filepath.Join(root, "math", "R-cran-car", "Makefile"), unsatisfied)
	_, err = service.Resolve(t.Context(), ResolveRequest{PortsDir: root, Name: "R-cran-car"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestGraph(t *testing.T) {
	root := newTestTree(t)
	service, _, renderer := newTestService()
	createCar(t, service, root, CreateRequest{})
	withMissing := strings.Replace(carMakefile, "RUN_DEPENDS=\tR-cran-carData>=3.0.0:math/R-cran-carData\n",
		"BUILD_DEPENDS=\tgmake:devel/gmake\nRUN_DEPENDS=\tR-cran-carData>=3.0.0:math/R-cran-carData\n", 1)
	writeFile(t, filepath.Join(root, "math", "R-cran-car", "Makefile"), withMissing)

	result, err := service.Graph(t.Context(), GraphRequest{PortsDir: root, Name: "R-cran-car", SVG: true})
	require.NoError(t, err)
	assert.Equal(t, "math/R-cran-car", result.Root)
	assert.Equal(t, 3, result.Nodes)
	assert.Equal(t, 2, result.Edges)
	assert.Contains(t, result.DOT, "\"math/R-cran-car\" -> \"math/R-cran-carData\" [label=\"run\"];")
	assert.Contains(t, result.DOT, "\"math/R-cran-car\" -> \"devel/gmake\" [label=\"build\"];")
	assert.Contains(t, result.DOT, "\"devel/gmake\" [style=\"rounded,dashed\"];")
	assert.Equal(t, result.DOT, renderer.dot)
	assert.Equal(t, "<svg/>", string(result.SVG))
}

func TestToDOT(t *testing.T) {
	dot := toDOT([]string{"a/x", "b/y"}, []graphEdge{{from: "a/x", to: "b/y", label: "lib"}}, nil)
	want := "digraph ports {\n" +
		"  rankdir=LR;\n" +
		"  node [shape=box, style=rounded];\n" +
		"\n" +
		"  \"a/x\";\n" +
		"  \"b/y\";\n" +
		"\n" +
		"  \"a/x\" -> \"b/y\" [label=\"lib\"];\n" +
		"}\n"
	if diff := cmp.Diff(want, dot); diff != "" {
		t.Fatalf("unexpected DOT (-want +got):\n%s", diff)
	}
}
