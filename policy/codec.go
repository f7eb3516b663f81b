package policy

import (
	"bytes"
	"fmt"

	"github.com/tsinghua-fib-lab/intersection-rl/agent"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct 将Q表转换为protobuf Struct
func ToStruct(t *agent.Table) (*structpb.Struct, error) {
	fields := make(map[string]any)
	for sk, actions := range t.ToNested() {
		inner := make(map[string]any, len(actions))
		for ak, v := range actions {
			inner[ak] = v
		}
		fields[sk] = inner
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("policy to struct: %w", err)
	}
	return s, nil
}

// FromStruct 由protobuf Struct构造Q表
// 说明：外层值必须为对象，内层值必须为数值
func FromStruct(s *structpb.Struct) (*agent.Table, error) {
	nested := make(map[string]map[string]float64, len(s.GetFields()))
	for sk, sv := range s.GetFields() {
		inner := sv.GetStructValue()
		if inner == nil {
			return nil, fmt.Errorf("state %s: value is not an object", sk)
		}
		actions := make(map[string]float64, len(inner.GetFields()))
		for ak, av := range inner.GetFields() {
			n, ok := av.GetKind().(*structpb.Value_NumberValue)
			if !ok {
				return nil, fmt.Errorf("state %s action %s: value is not a number", sk, ak)
			}
			actions[ak] = n.NumberValue
		}
		nested[sk] = actions
	}
	return agent.FromNested(nested)
}

// Marshal 将Q表编码为JSON文本
func Marshal(t *agent.Table) ([]byte, error) {
	s, err := ToStruct(t)
	if err != nil {
		return nil, err
	}
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("policy marshal: %w", err)
	}
	return data, nil
}

// Unmarshal 解码JSON文本为Q表
// 说明：空内容视为空表
func Unmarshal(data []byte) (*agent.Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return agent.NewTable(), nil
	}
	var s structpb.Struct
	if err := protojson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("policy unmarshal: %w", err)
	}
	return FromStruct(&s)
}
