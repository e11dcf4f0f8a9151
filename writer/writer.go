package writer

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// XML renders value as indented XML into out.
func XML(out *strings.Builder, value any) error {
	result, err := xml.MarshalIndent(value, "", " ")
	if err != nil {
		return err
	}

	out.Write(result)
	out.WriteString("\n")

	return nil
}

// OutputPath derives an output file name by replacing the extension of
// input with ext. A directory input names its output after the directory
// and places it inside.
func OutputPath(input string, dir bool, ext string) string {
	input = strings.TrimSuffix(input, string(filepath.Separator))
	if dir {
		return filepath.Join(input, filepath.Base(input)+ext)
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// File writes content to filename.
func File(filename string, content string) error {
	log.Infof("output:\t%s", filename)

	if err := os.WriteFile(filename, []byte(content), 0666); err != nil {
		return errors.Wrapf(err, "writing %s", filename)
	}
	return nil
}
