package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"hnassist/internal/components/assert"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput writes every message as its own file under dir.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

// InstrumentClient writes a formatted copy of every completed exchange made by client
// to output. `output` can be nil, in which case this is a no-op.
//
// Message ids are prefixed with `prefix` so several clients can share one output.
func InstrumentClient(client *resty.Client, prefix string, output InstrumentOutput) {
	if output == nil {
		return
	}
	assert.NotEmptyStr("prefix", prefix)

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		messageId := fmt.Sprintf(
			"%s-%04d-%s.txt",
			prefix, id, strings.ToLower(res.Request.Method),
		)
		output.Write(messageId, formatHttpMessage(res))
		return nil
	})
}
