package jdk

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"mckeeper/internal/config"
	"mckeeper/internal/fetch"
	"mckeeper/internal/logger"
)

// AdoptiumBase is the Adoptium binary API. Overridable for tests.
var AdoptiumBase = "https://api.adoptium.net/v3"

/**
 * Install a Temurin JDK of the given major version
 * @param {int} major - Java major version to install
 * @returns {string, error} Path to the installed java executable
 * @description
 * - Downloads the latest GA release for this OS and architecture from
 *   the Adoptium API and unpacks it under the managed jdk dir
 * - Windows archives are zip, everything else tar.gz
 */
func Install(major int) (string, error) {
	osName := runtime.GOOS
	if osName == "darwin" {
		osName = "mac"
	}
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x64"
	case "arm64":
		arch = "aarch64"
	}

	url := fmt.Sprintf("%s/binary/latest/%d/ga/%s/%s/jdk/hotspot/normal/eclipse",
		AdoptiumBase, major, osName, arch)

	ext := ".tar.gz"
	if runtime.GOOS == "windows" {
		ext = ".zip"
	}
	archivePath := filepath.Join(config.Config.Jdk.Dir, fmt.Sprintf("temurin-%d%s", major, ext))

	logger.Infof("downloading Temurin JDK %d from %s", major, url)
	if err := fetch.GetFile(url, archivePath, ""); err != nil {
		return "", fmt.Errorf("failed to download JDK %d: %w", major, err)
	}
	defer os.Remove(archivePath)

	var root string
	var err error
	if ext == ".zip" {
		root, err = extractZip(archivePath, config.Config.Jdk.Dir)
	} else {
		root, err = extractTarGz(archivePath, config.Config.Jdk.Dir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to unpack JDK %d: %w", major, err)
	}

	home := filepath.Join(config.Config.Jdk.Dir, root)
	if runtime.GOOS == "darwin" {
		home = filepath.Join(home, "Contents", "Home")
	}
	javaBin := javaPath(home)
	if _, err := os.Stat(javaBin); err != nil {
		return "", fmt.Errorf("JDK unpacked but %s is missing", javaBin)
	}
	logger.Infof("installed Temurin JDK %d at %s", major, home)
	return javaBin, nil
}

// extractTarGz unpacks a tar.gz archive into destDir and returns the
// top-level directory name.
func extractTarGz(archivePath, destDir string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", err
	}
	defer gz.Close()

	root := ""
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		name := filepath.Clean(hdr.Name)
		if strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return "", fmt.Errorf("archive entry escapes destination: %s", hdr.Name)
		}
		if root == "" {
			root = strings.SplitN(name, string(filepath.Separator), 2)[0]
		}
		target := filepath.Join(destDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
		case tar.TypeSymlink:
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return "", err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return "", err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return "", err
			}
			_, err = io.Copy(out, tr)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return "", err
			}
		}
	}
	if root == "" {
		return "", fmt.Errorf("archive %s is empty", archivePath)
	}
	return root, nil
}

// extractZip unpacks a zip archive into destDir and returns the
// top-level directory name.
func extractZip(archivePath, destDir string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	root := ""
	for _, entry := range zr.File {
		name := filepath.Clean(entry.Name)
		if strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return "", fmt.Errorf("archive entry escapes destination: %s", entry.Name)
		}
		if root == "" {
			root = strings.SplitN(name, string(filepath.Separator), 2)[0]
		}
		target := filepath.Join(destDir, name)

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return "", err
		}
		in, err := entry.Open()
		if err != nil {
			return "", err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, entry.Mode())
		if err != nil {
			in.Close()
			return "", err
		}
		_, err = io.Copy(out, in)
		in.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return "", err
		}
	}
	if root == "" {
		return "", fmt.Errorf("archive %s is empty", archivePath)
	}
	return root, nil
}

/**
 * Ensure a java executable of the required major version is available
 * @param {int} major - Required Java major version
 * @returns {string, error} Path to a matching java executable
 * @description
 * - Tries local discovery first and installs a managed Temurin JDK
 *   only when nothing suitable is found
 */
func Ensure(major int) (string, error) {
	if javaBin, err := Locate(major); err == nil {
		return javaBin, nil
	}
	logger.Infof("java %d not found locally, installing", major)
	return Install(major)
}
