// 策略（Q表）持久化
// 持久化形式为文本映射 {状态: {动作: 价值}}，与内部强类型键之间只在存储边界转换
package policy

import (
	"github.com/tsinghua-fib-lab/intersection-rl/agent"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
)

// IPolicyStore 策略存储接口
type IPolicyStore interface {
	// 读取已保存的Q表，不存在时返回空表且不报错
	Load() (*agent.Table, error)
	// 保存Q表，覆盖已有内容
	Save(t *agent.Table) error
	// 释放资源
	Close() error
	String() string
}

// New 根据配置创建策略存储
// 说明：配置了MongoDB连接字符串时使用MongoDB，否则使用本地文件
func New(c config.Policy, runID string) IPolicyStore {
	if c.URI != "" {
		return NewMongoStore(c, runID)
	}
	return NewFileStore(c.File)
}
