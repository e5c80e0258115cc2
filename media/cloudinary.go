package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrNotConfigured = errors.New("media storage is not configured")

// Signature lets a client upload straight to Cloudinary; the resulting
// secure URL is what gets stored on a question.
type Signature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
	clock  func() time.Time
}

// New returns a nil client without error when cloudinaryURL is empty.
func New(cloudinaryURL, folder string) (*Client, error) {
	if cloudinaryURL == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Client{cld: cld, folder: folder, clock: time.Now}, nil
}

// SignUpload signs an upload into subfolder below the configured folder.
func (c *Client) SignUpload(subfolder string) (*Signature, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	folder := c.folder
	if subfolder != "" {
		folder = folder + "/" + subfolder
	}

	params, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("prepare signature params: %w", err)
	}
	timestamp := c.clock().Unix()
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, c.cld.Config.Cloud.APISecret)
	if err != nil {
		return nil, fmt.Errorf("sign upload params: %w", err)
	}

	return &Signature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    c.cld.Config.Cloud.APIKey,
		CloudName: c.cld.Config.Cloud.CloudName,
		Folder:    folder,
	}, nil
}

// UploadPDF stores a rendered document and returns its secure URL.
func (c *Client) UploadPDF(ctx context.Context, name string, pdf []byte) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	res, err := c.cld.Upload.Upload(ctx, bytes.NewReader(pdf), uploader.UploadParams{
		PublicID:     name,
		Folder:       c.folder + "/reports",
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", name, res.Error.Message)
	}
	return res.SecureURL, nil
}
