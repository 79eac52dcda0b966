package sink

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/darkkaiser/phone-price-server/pkg/concurrency"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const defaultSnapshotDirectory = "data/snapshots"

// Snapshot 저장된 표입니다. 마지막 실행의 내용만 유지합니다.
type Snapshot struct {
	Name    string    `json:"name"`
	Header  []string  `json:"header"`
	Rows    [][]any   `json:"rows"`
	SavedAt time.Time `json:"saved_at"`
}

// Store 표마다 JSON 스냅샷 파일 하나를 유지합니다.
//
//   - snapshot-{표 이름}-{hash}.json: 표의 마지막 내용
//   - sink-*.tmp: 저장 중 생성되는 임시 파일
type Store struct {
	baseDir string

	// locks 같은 파일에 대한 동시 읽기/쓰기를 막습니다.
	locks *concurrency.KeyedMutex[string]

	now func() time.Time
}

var _ Sink = (*Store)(nil)

// NewStore dir 에 스냅샷 저장소를 만듭니다. dir 이 비어 있으면 "data/snapshots" 입니다.
// 이전 실행에서 남은 임시 파일은 백그라운드에서 정리합니다.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = defaultSnapshotDirectory
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, newErrPathResolutionFailed(err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, newErrDirectoryAccessFailed(err, absDir)
	}

	s := &Store{
		baseDir: absDir,
		locks:   concurrency.NewKeyedMutex[string](),
		now:     time.Now,
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"dir":   s.baseDir,
					"panic": r,
				}).Error("임시 파일 정리 중단: 백그라운드 작업 패닉 발생")
			}
		}()

		cleanupStaleTempFiles(s.baseDir)
	}()

	return s, nil
}

func (s *Store) Dir() string {
	return s.baseDir
}

// Write 표를 스냅샷 파일로 원자적으로 저장합니다.
func (s *Store) Write(ctx context.Context, t Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolveSafePath(t.Name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(Snapshot{
		Name:    t.Name,
		Header:  t.Header,
		Rows:    t.Rows,
		SavedAt: s.now(),
	}, "", "\t")
	if err != nil {
		return newErrJSONMarshalFailed(err)
	}

	return s.locks.WithLock(strings.ToLower(path), func() error {
		return writeAtomic(path, func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})
	})
}

// Load 표의 마지막 스냅샷을 읽습니다. 없으면 ErrSnapshotNotFound 입니다.
// JSON 으로 저장했으므로 숫자 셀은 float64 로 돌아옵니다.
func (s *Store) Load(name string) (*Snapshot, error) {
	path, err := s.resolveSafePath(name)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = s.locks.WithLock(strings.ToLower(path), func() error {
		var readErr error
		data, readErr = os.ReadFile(path)
		if readErr != nil {
			if os.IsNotExist(readErr) {
				return ErrSnapshotNotFound
			}
			return newErrSnapshotReadFailed(readErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, newErrJSONUnmarshalFailed(err)
	}
	return &snap, nil
}

// resolveSafePath 만들어진 경로가 저장 디렉토리 아래에 있는지 확인합니다.
func (s *Store) resolveSafePath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyTableName
	}

	cleanPath := filepath.Clean(filepath.Join(s.baseDir, snapshotFilename(name)))

	rel, err := filepath.Rel(s.baseDir, cleanPath)
	if err != nil {
		return "", newErrPathResolutionFailed(err)
	}
	if strings.HasPrefix(rel, "..") {
		applog.WithComponentAndFields(component, applog.Fields{
			"name":     name,
			"base_dir": s.baseDir,
			"path":     cleanPath,
		}).Error("파일 경로 생성 차단: 경로 이탈 시도 감지")

		return "", ErrPathTraversalDetected
	}

	return cleanPath, nil
}
