// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "github.com/danielhkuo/blockvote/models"

// SeedPolls returns the built-in polls shown when the backend has none.
// Each call returns a fresh slice.
func SeedPolls() []models.Poll {
	return []models.Poll{
		{
			ID:          1,
			Title:       "社区治理提案投票",
			Description: "决定是否实施新的社区治理机制",
			Address:     models.ZeroAddress,
			EndDate:     "2024-12-31",
			VoteNum:     1250,
		},
		{
			ID:          2,
			Title:       "技术升级方案选择",
			Description: "选择下一阶段的技术升级方向",
			Address:     models.ZeroAddress,
			EndDate:     "2024-12-25",
			VoteNum:     890,
		},
		{
			ID:          3,
			Title:       "预算分配方案",
			Description: "决定下一季度预算的分配比例",
			Address:     models.ZeroAddress,
			EndDate:     "2024-11-30",
			VoteNum:     2100,
		},
	}
}
