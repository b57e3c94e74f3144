package snowflake

import "github.com/bwmarrin/snowflake"

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

// GenID 兑换流水、加分申请等表的主键
func GenID() int64 {
	return node.Generate().Int64()
}
