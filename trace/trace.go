// 决策轨迹记录
// 每个决策时刻写入一条msgpack记录，用于离线分析学习过程
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

var log = logrus.WithField("module", "trace")

// Record 一次决策的记录
type Record struct {
	Step    int32   `msgpack:"step"`
	State   string  `msgpack:"state"`   // 当前离散状态
	Action  int32   `msgpack:"action"`  // 选择的动作
	Reward  float64 `msgpack:"reward"`  // 归属于上一动作的奖励
	Applied bool    `msgpack:"applied"` // 切换请求是否被信号灯接受
	Updated float64 `msgpack:"updated"` // 上一(状态, 动作)更新后的价值
	Hold    float64 `msgpack:"q_hold"`  // 当前状态下保持的价值
	Switch  float64 `msgpack:"q_switch"`
}

// Recorder 轨迹写入器
type Recorder struct {
	file    *os.File
	w       *bufio.Writer
	enc     *msgpack.Encoder
	written int
}

// Open 创建轨迹文件（覆盖已有文件）
func Open(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}
	w := bufio.NewWriter(f)
	return &Recorder{file: f, w: w, enc: msgpack.NewEncoder(w)}, nil
}

// Write 写入一条记录
func (r *Recorder) Write(rec Record) error {
	if err := r.enc.Encode(&rec); err != nil {
		return fmt.Errorf("encode trace record: %w", err)
	}
	r.written++
	return nil
}

// Close 刷新缓冲并关闭文件
func (r *Recorder) Close() error {
	err := r.w.Flush()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	log.Infof("%d decision records written to %s", r.written, r.file.Name())
	return err
}

// ReadAll 读取轨迹中的全部记录
func ReadAll(rd io.Reader) ([]Record, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(rd))
	records := make([]Record, 0)
	for {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("decode trace record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}
