package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// HandleFunc processes one incoming file. A nil return moves the file to the
// success folder; an error moves it to the fail folder.
type HandleFunc func(ctx context.Context, path string) error

// RunPipeline watches incomingDir for new files and routes each through
// handle. Files already sitting in incomingDir at startup are processed
// first, so nothing delivered while the process was down is lost.
// Blocks until ctx is cancelled.
func RunPipeline(ctx context.Context, incomingDir, successDir, failDir string, handle HandleFunc) error {
	for _, dir := range []string{incomingDir, successDir, failDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(incomingDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		processFile(ctx, filepath.Join(incomingDir, e.Name()), successDir, failDir, handle)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(incomingDir); err != nil {
		return err
	}
	log.Info().Str("dir", incomingDir).Msg("watching for incoming data files")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				processFile(ctx, event.Name, successDir, failDir, handle)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Str("dir", incomingDir).Msg("watcher error")
		}
	}
}

func processFile(ctx context.Context, path, successDir, failDir string, handle HandleFunc) {
	log.Debug().Str("file", path).Msg("incoming data file detected")

	if err := handle(ctx, path); err != nil {
		log.Error().Err(err).Str("file", path).Msg("data ingestion failed")
		if mvErr := moveFile(path, filepath.Join(failDir, filepath.Base(path))); mvErr != nil {
			log.Error().Err(mvErr).Str("file", path).Msg("failed to move file to fail folder")
		}
		return
	}

	if err := moveFile(path, filepath.Join(successDir, filepath.Base(path))); err != nil {
		log.Error().Err(err).Str("file", path).Msg("failed to move file to success folder")
		return
	}
	log.Info().Str("file", path).Msg("data file ingested")
}

// moveFile copies then removes — os.Rename alone fails across filesystems,
// which is common when the folders are distinct mounted volumes.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return os.Remove(src)
}
