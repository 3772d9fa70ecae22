package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
)

// Uploader pushes a snapshot to remote storage and returns a file reference.
type Uploader interface {
	Upload(ctx context.Context, snap *Snapshot, day time.Time) (fileRef string, err error)
}

type DriveClient struct {
	svc      *gdrive.Service
	folderID string
}

var _ Uploader = (*DriveClient)(nil)

// NewDriveFromEnv creates a Drive client using environment variables.
// Required: GOOGLE_DRIVE_FOLDER_ID
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewDriveFromEnv(ctx context.Context) (*DriveClient, error) {
	folderID := strings.TrimSpace(os.Getenv("GOOGLE_DRIVE_FOLDER_ID"))
	if folderID == "" {
		return nil, errors.New("missing GOOGLE_DRIVE_FOLDER_ID")
	}

	svc, err := newDriveService(ctx)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &DriveClient{svc: svc, folderID: folderID}, nil
}

// newDriveService initializes a Drive Service using Service Account credentials.
func newDriveService(ctx context.Context) (*gdrive.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return service, nil
}

// Upload writes the snapshot to the configured folder. One file per day:
// if a file with today's name already exists its content is replaced,
// otherwise a new file is created.
func (c *DriveClient) Upload(ctx context.Context, snap *Snapshot, day time.Time) (string, error) {
	if c.svc == nil {
		return "", errors.New("drive service not initialized")
	}

	body, err := snap.ToJSON()
	if err != nil {
		return "", err
	}

	name := FileName(day)
	existingID, err := c.findFile(ctx, name)
	if err != nil {
		return "", err
	}

	if existingID != "" {
		_, err = c.svc.Files.Update(existingID, &gdrive.File{}).
			Media(bytes.NewReader(body)).
			Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("update drive file %s: %w", name, err)
		}
		slog.InfoContext(ctx, "Replaced backup file on Drive",
			"file", name,
			"file_id", existingID,
			"transactions", len(snap.Transactions))
		return existingID, nil
	}

	created, err := c.svc.Files.Create(&gdrive.File{
		Name:     name,
		MimeType: "application/json",
		Parents:  []string{c.folderID},
	}).
		Media(bytes.NewReader(body)).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create drive file %s: %w", name, err)
	}

	slog.InfoContext(ctx, "Created backup file on Drive",
		"file", name,
		"file_id", created.Id,
		"transactions", len(snap.Transactions))
	return created.Id, nil
}

// findFile returns the ID of a non-trashed file with the given name inside
// the backup folder, or "" when none exists.
func (c *DriveClient) findFile(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), c.folderID)

	list, err := c.svc.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list drive files: %w", err)
	}

	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}
