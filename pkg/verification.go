package pkg

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/zelzip/niiebla/pkg/digest"
	"github.com/zelzip/niiebla/pkg/nilog"
)

// VerifyWadWithLogger checks every content entry's decrypted bytes
// against the hash its title metadata declares, logging progress
// through logger. It returns every mismatch found rather than
// stopping at the first one.
func VerifyWadWithLogger(o *OpenedWad, logger hclog.Logger) ([]string, error) {
	logger.Info("verifying installable WAD content integrity")

	tmd, err := o.TitleMetadata()
	if err != nil {
		logger.Error("failed to read title metadata", "error", err)
		return nil, err
	}

	var failures []string
	for i, entry := range tmd.ContentEntries {
		view, err := o.Wad.DecryptedContentView(o.file, i)
		if err != nil {
			failures = append(failures, fmt.Sprintf("content %d (id=%08x): %v", i, entry.ID, err))
			logger.Error("content decrypt failed", "position", i, "id", entry.ID, "error", err)
			continue
		}

		data := make([]byte, entry.Size)
		if _, err := view.Read(data); err != nil {
			failures = append(failures, fmt.Sprintf("content %d (id=%08x): %v", i, entry.ID, err))
			logger.Error("content read failed", "position", i, "id", entry.ID, "error", err)
			continue
		}

		got := digest.Sum(digest.SHA1, data)
		if string(got) != string(entry.Hash[:]) {
			failures = append(failures, fmt.Sprintf("content %d (id=%08x): hash mismatch", i, entry.ID))
			logger.Error("content hash mismatch", "position", i, "id", entry.ID)
			continue
		}

		logger.Info("content hash valid", "position", i, "id", entry.ID)
	}

	if len(failures) == 0 {
		logger.Info("WAD verification passed")
	} else {
		logger.Error("WAD verification failed", "failure_count", len(failures))
	}

	return failures, nil
}

// VerifyWad verifies a WAD's content integrity using a logger built
// from the environment's default settings.
func VerifyWad(o *OpenedWad) ([]string, error) {
	logger := nilog.New("niiebla-verify", nilog.LevelFromEnv(), nil)
	return VerifyWadWithLogger(o, logger)
}
