package files

import (
	"archive/zip"
	"bufio"
	"image"
	_ "image/gif"  // needed to decode gif
	_ "image/jpeg" // needed to decode jpeg
	_ "image/png"  // needed to decode png
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/webp" // needed to decode webp
)

const binSize = 10

func IsValidLocation(location string) error {
	if _, err := os.Stat(location); err != nil {
		return err
	}

	return nil
}

// CreateCbzArchive creates a zip archive named cbzPath and adds all files from sourceDir to it.
// With trimWidths set, pages whose width is far off the most common width are left out.
// Pages that can't be decoded, like avif, are always kept.
func CreateCbzArchive(sourceDir, cbzPath string, trimWidths bool) error {
	err := os.MkdirAll(filepath.Dir(cbzPath), os.ModePerm)
	if err != nil {
		return err
	}

	widths, err := imageWidths(sourceDir)
	if err != nil {
		return err
	}

	mostCommonWidth := mostCommonBin(widths)

	cbzFile, err := os.Create(cbzPath)
	if err != nil {
		return err
	}
	defer cbzFile.Close()

	writeBuf := bufio.NewWriter(cbzFile)
	zipWriter := zip.NewWriter(writeBuf)

	walkErr := filepath.Walk(sourceDir, func(imgPath string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		if width, ok := widths[imgPath]; ok && trimWidths {
			if width < mostCommonWidth-binSize || width > mostCommonWidth+binSize {
				return nil
			}
		}

		return addFileToZip(zipWriter, imgPath, info.Name())
	})
	if walkErr != nil {
		return walkErr
	}

	if err := zipWriter.Close(); err != nil {
		return err
	}

	return writeBuf.Flush()
}

// imageWidths maps every decodable image in dir to its width.
func imageWidths(dir string) (map[string]int, error) {
	widths := make(map[string]int)

	walkErr := filepath.Walk(dir, func(imgPath string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		imgFile, err := os.Open(imgPath)
		if err != nil {
			return err
		}
		defer imgFile.Close()

		img, _, err := image.DecodeConfig(imgFile)
		if err != nil {
			return nil
		}

		widths[imgPath] = img.Width
		return nil
	})

	return widths, walkErr
}

func mostCommonBin(widths map[string]int) int {
	widthCount := make(map[int]int)
	for _, width := range widths {
		widthCount[(width/binSize)*binSize]++
	}

	var mostCommonWidth, maxCount int
	for bin, count := range widthCount {
		if count > maxCount || (count == maxCount && bin > mostCommonWidth) {
			maxCount = count
			mostCommonWidth = bin
		}
	}

	return mostCommonWidth
}

// addFileToZip adds a single file to the zip archive
func addFileToZip(zipWriter *zip.Writer, filePath, fileName string) error {
	fileToZip, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer fileToZip.Close()

	writer, err := zipWriter.Create(fileName)
	if err != nil {
		return err
	}

	readerBuf := bufio.NewReader(fileToZip)

	_, err = io.Copy(writer, readerBuf)
	return err
}
