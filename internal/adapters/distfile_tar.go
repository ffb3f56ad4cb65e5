package adapters

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/yzgyyang/portcran/internal/ports"
)

// maxMemberSize bounds how much of a single archive member is read.
const maxMemberSize = 16 << 20

// TarGzDistfileAdapter reads members out of .tar.gz distfiles, the format
// CRAN publishes source packages in.
type TarGzDistfileAdapter struct{}

func NewTarGzDistfileAdapter() TarGzDistfileAdapter {
	return TarGzDistfileAdapter{}
}

func (a TarGzDistfileAdapter) ReadMember(archive string, member string) ([]byte, error) {
	file, err := os.Open(archive)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open distfile: " + archive).
			WithCause(err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, distfileError(archive, err)
	}
	defer gz.Close()

	want := path.Clean(member)
	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, distfileError(archive, err)
		}
		if header.Typeflag != tar.TypeReg || path.Clean(header.Name) != want {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(reader, maxMemberSize))
		if err != nil {
			return nil, distfileError(archive, err)
		}
		return data, nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("distfile " + archive + " has no member " + member)
}

func distfileError(archive string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("failed to read distfile: " + archive).
		WithCause(err)
}

var _ ports.DistfilePort = TarGzDistfileAdapter{}
