package sink

import (
	"io"
	"os"
	"path/filepath"
	"time"

	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

// tempFilePattern 저장 중 생성되는 임시 파일의 이름 패턴입니다.
const tempFilePattern = "sink-*.tmp"

// writeAtomic write 가 임시 파일에 내용을 쓰면, 동기화 후 path 로 이름을 바꿉니다.
// 임시 파일은 같은 디렉토리에 만들어야 rename 이 원자적으로 동작합니다.
func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return newErrAtomicWriteFailed(err, path)
	}

	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return newErrAtomicWriteFailed(err, path)
	}
	tmpPath := tmpFile.Name()

	// Windows 에서는 열린 파일을 지울 수 없으므로 Close 가 Remove 보다 먼저 실행되어야 한다.
	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if err := write(tmpFile); err != nil {
		return newErrAtomicWriteFailed(err, path)
	}
	if err := tmpFile.Sync(); err != nil {
		return newErrAtomicWriteFailed(err, path)
	}
	if err := tmpFile.Close(); err != nil {
		return newErrAtomicWriteFailed(err, path)
	}

	if err := renameWithRetry(tmpPath, path); err != nil {
		return newErrAtomicWriteFailed(err, path)
	}

	if dirFile, err := os.Open(dir); err == nil {
		_ = dirFile.Sync()
		dirFile.Close()
	}

	return nil
}

// renameWithRetry 백신이나 인덱서가 파일을 잠시 잡고 있는 경우를 위해 짧게 재시도합니다.
func renameWithRetry(oldPath, newPath string) error {
	const maxRetries = 5
	const retryDelay = 10 * time.Millisecond

	var lastErr error
	for range maxRetries {
		err := os.Rename(oldPath, newPath)
		if err == nil {
			return nil
		}

		lastErr = err
		time.Sleep(retryDelay)
	}

	return lastErr
}

// cleanupStaleTempFiles 비정상 종료로 남은 1시간 이상 지난 임시 파일을 지웁니다.
func cleanupStaleTempFiles(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"dir":   dir,
			"error": err,
		}).Warn("임시 파일 정리 중단: 디렉토리 조회 실패")

		return
	}

	threshold := time.Now().Add(-1 * time.Hour)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, _ := filepath.Match(tempFilePattern, entry.Name()); !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(threshold) {
			continue
		}

		fullPath := filepath.Join(dir, entry.Name())
		if err := os.Remove(fullPath); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  fullPath,
				"error": err,
			}).Warn("임시 파일 삭제 실패")
		} else {
			applog.WithComponentAndFields(component, applog.Fields{
				"file": fullPath,
			}).Info("이전 실행에서 남은 임시 파일을 삭제했습니다")
		}
	}
}
