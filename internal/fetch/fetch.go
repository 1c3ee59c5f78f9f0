package fetch

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"mckeeper/internal/logger"
)

var client = &http.Client{
	Timeout: 10 * time.Minute,
}

func GetBytes(urlStr string, params map[string]string) ([]byte, error) {
	req, err := http.NewRequest("GET", urlStr, nil)
	if err != nil {
		return []byte{}, fmt.Errorf("GetBytes: %v", err)
	}
	vals := make(url.Values)
	for k, v := range params {
		vals.Set(k, v)
	}
	req.URL.RawQuery = vals.Encode()

	rsp, err := client.Do(req)
	if err != nil {
		return []byte{}, fmt.Errorf("GetBytes: %v", err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != 200 {
		rspBody, _ := io.ReadAll(rsp.Body)
		return rspBody, fmt.Errorf("GetBytes('%s?%s') code:%d, error:%s",
			urlStr, req.URL.RawQuery, rsp.StatusCode, string(rspBody))
	}
	return io.ReadAll(rsp.Body)
}

/**
 * Fetch a JSON document and decode it into out
 * @param {string} urlStr - Request URL
 * @param {map[string]string} params - Optional query parameters
 * @param {interface{}} out - Decode target
 */
func GetJSON(urlStr string, params map[string]string, out interface{}) error {
	data, err := GetBytes(urlStr, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("GetJSON('%s'): decode error: %v", urlStr, err)
	}
	return nil
}

/**
 * Download a file from the server to savePath
 * @param {string} urlStr - Request URL
 * @param {string} savePath - Destination path, parent directories are created
 * @param {string} sha1Hex - Expected SHA-1 of the body, empty to skip verification
 * @description
 * - Streams the body into a temporary file next to the destination
 * - Verifies the digest before renaming into place, so a failed or
 *   corrupt download never replaces an existing artifact
 */
func GetFile(urlStr string, savePath string, sha1Hex string) error {
	req, err := http.NewRequest("GET", urlStr, nil)
	if err != nil {
		return fmt.Errorf("GetFile('%s') failed: %v", urlStr, err)
	}

	rsp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GetFile('%s') failed: %v", urlStr, err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != 200 {
		rspBody, _ := io.ReadAll(rsp.Body)
		return fmt.Errorf("GetFile('%s') code: %d, error:%s",
			urlStr, rsp.StatusCode, string(rspBody))
	}

	if err = os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return fmt.Errorf("GetFile('%s'): MkdirAll('%s') error:%v", urlStr, savePath, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(savePath), filepath.Base(savePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("GetFile('%s'): create temp error: %v", urlStr, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	var dst io.Writer = tmp
	var digest hash.Hash
	if sha1Hex != "" {
		digest = sha1.New()
		dst = io.MultiWriter(tmp, digest)
	}

	written, err := io.Copy(dst, rsp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("GetFile('%s'): copy error: %v", urlStr, err)
	}

	if digest != nil {
		got := hex.EncodeToString(digest.Sum(nil))
		if got != sha1Hex {
			return fmt.Errorf("GetFile('%s'): checksum mismatch: expected %s, got %s",
				urlStr, sha1Hex, got)
		}
	}

	if err := os.Rename(tmpName, savePath); err != nil {
		return fmt.Errorf("GetFile('%s'): rename error: %v", urlStr, err)
	}
	logger.Debugf("downloaded %s (%d bytes) to %s", urlStr, written, savePath)
	return nil
}

// FileSHA256 computes the hex SHA-256 digest of a file on disk.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	digest := sha256.New()
	if _, err := io.Copy(digest, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
