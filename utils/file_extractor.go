package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v4"
)

type archiveExtractor struct {
	reader     io.Reader
	readCloser io.ReadCloser
	ex         archiver.Extractor
}

func extractFileLogic(ctx context.Context, src, dest string, extractor *archiveExtractor) error {
	handler := func(ctx context.Context, file archiver.File) error {
		extractedFilePath := filepath.Join(dest, file.NameInArchive)
		// guard against paths escaping the destination directory
		if !strings.HasPrefix(extractedFilePath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf(
				"error %d: illegal file path in archive, %s",
				UNEXPECTED_ERROR,
				extractedFilePath,
			)
		}
		os.MkdirAll(filepath.Dir(extractedFilePath), 0755)

		if file.IsDir() {
			return os.MkdirAll(extractedFilePath, 0755)
		}

		af, err := file.Open()
		if err != nil {
			return err
		}
		defer af.Close()

		out, err := os.OpenFile(
			extractedFilePath,
			os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			file.Mode(),
		)
		if err != nil {
			return err
		}
		defer out.Close()

		_, err = io.Copy(out, af)
		return err
	}

	var input io.Reader
	if extractor.readCloser != nil {
		input = extractor.readCloser
	} else {
		input = extractor.reader
	}

	if err := extractor.ex.Extract(ctx, input, nil, handler); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf(
			"error %d: unable to extract archive %s, more info => %v",
			OS_ERROR,
			src,
			err,
		)
	}
	return nil
}

func getExtractor(f *os.File, src string) (*archiveExtractor, error) {
	format, archiveReader, err := archiver.Identify(
		filepath.Base(src),
		f,
	)
	if err == archiver.ErrNoMatch {
		return nil, fmt.Errorf(
			"error %d: %s is not a supported archive file",
			OS_ERROR,
			src,
		)
	} else if err != nil {
		return nil, err
	}

	var rc io.ReadCloser
	if decom, ok := format.(archiver.Decompressor); ok {
		rc, err = decom.OpenReader(archiveReader)
		if err != nil {
			return nil, err
		}
	}

	ex, ok := format.(archiver.Extractor)
	if !ok {
		return nil, fmt.Errorf(
			"error %d: unable to extract archive %s",
			UNEXPECTED_ERROR,
			src,
		)
	}
	return &archiveExtractor{
		reader:     archiveReader,
		readCloser: rc,
		ex:         ex,
	}, nil
}

// Extract all files from the given archive file to the given destination
func ExtractFiles(ctx context.Context, src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf(
			"error %d: unable to open archive file %s",
			OS_ERROR,
			src,
		)
	}
	defer f.Close()

	extractor, err := getExtractor(f, src)
	if err != nil {
		return err
	}

	if extractor.readCloser != nil {
		defer extractor.readCloser.Close()
	}
	return extractFileLogic(
		ctx,
		src,
		dest,
		extractor,
	)
}
