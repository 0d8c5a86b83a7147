package download

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"leitor/internal/domain"
	"leitor/internal/files"
	"leitor/internal/sharedhttp"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

type Options struct {
	// Header is sent with every image request.
	Header      http.Header
	Concurrency int
	Client      *http.Client

	// TrimWidths drops pages whose width is far off the most common one.
	TrimWidths bool

	// OnPage is called after each page is written.
	OnPage func()
}

// Chapter downloads the pages of a chapter and packs them into a CBZ archive
// at contentPath.
func Chapter(ctx context.Context, contentPath string, pages []domain.PageRef, opts Options) error {
	if len(pages) == 0 {
		return errors.New("chapter has no pages")
	}

	temp, err := os.MkdirTemp("", "leitor-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(temp)

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout:   60 * time.Second,
			Transport: sharedhttp.Transport,
		}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, page := range pages {
		page := page
		g.Go(func() error {
			filenameNoExt := filepath.Join(temp, fmt.Sprintf("%03d", page.Index+1))

			if err := singleFile(gctx, client, page.ImageURL, opts.Header, filenameNoExt); err != nil {
				return errors.Wrapf(err, "page %d", page.Index+1)
			}

			if opts.OnPage != nil {
				opts.OnPage()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return files.CreateCbzArchive(temp, contentPath, opts.TrimWidths)
}

// singleFile downloads a single file
func singleFile(ctx context.Context, client *http.Client, url string, header http.Header, filenameNoExt string) error {
	return retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
		}

		for key := range header {
			req.Header.Set(key, header.Get(key))
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to get image: %w", err)
		}
		defer resp.Body.Close()

		if err := sharedhttp.CheckStatusCode(resp.StatusCode); err != nil {
			return err
		}

		filename, err := appendImageExtension(resp, filenameNoExt)
		if err != nil {
			return retry.Unrecoverable(err)
		}

		out, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()

		readBuf := bufio.NewReader(resp.Body)
		writeBuf := bufio.NewWriter(out)

		if _, err := io.Copy(writeBuf, readBuf); err != nil {
			return err
		}

		return writeBuf.Flush()
	},
		retry.Context(ctx),
		retry.Delay(time.Second*3),
		retry.Attempts(3),
		retry.MaxJitter(time.Second*1),
		retry.LastErrorOnly(true),
	)
}

func appendImageExtension(resp *http.Response, filename string) (string, error) {
	contentType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		contentType = resp.Header.Get("Content-Type")
	}

	switch contentType {
	case "image/jpeg", "image/jpg":
		return filename + ".jpg", nil
	case "image/png":
		return filename + ".png", nil
	case "image/gif":
		return filename + ".gif", nil
	case "image/webp":
		return filename + ".webp", nil
	case "image/avif":
		return filename + ".avif", nil
	default:
		return filename, fmt.Errorf("unsupported content type: %s", contentType)
	}
}
