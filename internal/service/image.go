package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/gmaohq/gmao/internal/filestore"
)

// errNoFileStore is returned by image operations when no blob store is configured.
var errNoFileStore = errors.New("file storage is not configured")

// replaceImage uploads r, swaps the stored path via set and removes the
// previous blob. The new blob is removed again if set fails.
func replaceImage(
	ctx context.Context,
	files filestore.Store,
	prefix, filename string,
	r io.Reader,
	log *logrus.Logger,
	set func(path *string) (*string, error),
) error {
	if files == nil {
		return errNoFileStore
	}

	path, err := files.Upload(ctx, prefix, filename, r)
	if err != nil {
		return fmt.Errorf("uploading image: %w", err)
	}

	previous, err := set(&path)
	if err != nil {
		removeBlob(context.WithoutCancel(ctx), files, &path, log)

		return err
	}

	removeBlob(ctx, files, previous, log)

	return nil
}

// removeBlob deletes a stored blob, logging failures.
func removeBlob(ctx context.Context, files filestore.Store, path *string, log *logrus.Logger) {
	if files == nil || path == nil {
		return
	}

	if err := files.Delete(ctx, *path); err != nil {
		log.WithError(err).WithField("path", *path).Warn("failed to delete stored image")
	}
}
