package policy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tsinghua-fib-lab/intersection-rl/agent"
)

// FileStore 本地文件策略存储
type FileStore struct {
	path string
}

// NewFileStore 创建本地文件策略存储
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load 读取Q表
// 功能：文件不存在或为空时返回空表，读取或解析失败时返回错误
func (s *FileStore) Load() (*agent.Table, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Infof("policy file %s does not exist, start with empty table", s.path)
		return agent.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read policy file %s: %w", s.path, err)
	}
	t, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("policy file %s: %w", s.path, err)
	}
	log.Infof("load %d q values from %s", t.Len(), s.path)
	return t, nil
}

// Save 保存Q表
// 功能：先写入同目录临时文件再重命名，覆盖原有内容
func (s *FileStore) Save(t *agent.Table) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp policy file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write policy file: %w", err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("chmod policy file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close policy file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename policy file: %w", err)
	}
	log.Infof("save %d q values to %s", t.Len(), s.path)
	return nil
}

// Close 无需释放资源
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) String() string {
	return "file:" + s.path
}
