// Package street defines the catalog of random street events: windfalls,
// misfortunes, and market-moving news. This package is PURE and must NOT
// import any infrastructure packages.
package street

import (
	"fmt"

	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
)

// Kind classifies an event for presentation purposes.
type Kind string

const (
	KindGood   Kind = "good"
	KindBad    Kind = "bad"
	KindMarket Kind = "market"
)

// Event is an immutable catalog entry. The three effect fields are
// processed independently when present: MoneyChange and HealthChange
// apply when non-zero, the market shock applies when Kind is KindMarket.
// Frequency is the relative weight for sampling.
type Event struct {
	Kind            Kind     `json:"kind"`
	Message         string   `json:"message"`
	MoneyChange     int      `json:"money_change,omitempty"`
	HealthChange    int      `json:"health_change,omitempty"`
	GoodID          goods.ID `json:"good_id,omitempty"`
	PriceMultiplier float64  `json:"price_multiplier,omitempty"`
	Frequency       int      `json:"frequency"`
}

// Catalog lists all street events in table order. Table order is the
// iteration order of the weighted draw and must be preserved.
var Catalog = []Event{
	// Windfalls
	{Kind: KindGood, Message: "你在路边捡到了一个钱包!", MoneyChange: 200, Frequency: 5},
	{Kind: KindGood, Message: "有人请你吃大餐，省了一笔钱!", MoneyChange: 50, Frequency: 8},
	{Kind: KindGood, Message: "你帮助老太太过马路，她给了你红包!", MoneyChange: 100, Frequency: 6},

	// Misfortunes
	{Kind: KindBad, Message: "大街上两个流氓打了你!", HealthChange: -10, Frequency: 7},
	{Kind: KindBad, Message: "被骗子骗走了一些钱...", MoneyChange: -150, Frequency: 6},
	{Kind: KindBad, Message: "你被街头混混敲诈了!", MoneyChange: -200, Frequency: 5},
	{Kind: KindBad, Message: "北京沙尘暴，健康受损!", HealthChange: -5, Frequency: 8},
	{Kind: KindBad, Message: "城管来查证件，交了罚款...", MoneyChange: -100, Frequency: 7},

	// Market surges
	{Kind: KindMarket, Message: "专家提议提高大学生\"动手素质\"，进口玩具颇受欢迎!", GoodID: 5, PriceMultiplier: 2.0, Frequency: 170},
	{Kind: KindMarket, Message: "有人自豪地说：生病不用打针吃药，喝假白酒就可以!", GoodID: 3, PriceMultiplier: 3.0, Frequency: 139},
	{Kind: KindMarket, Message: "医院的秘密报告：\"《上海小宝贝》功效甚过伟哥\"!", GoodID: 4, PriceMultiplier: 5.0, Frequency: 100},
	{Kind: KindMarket, Message: "《北京经济小报》社论：\"走私汽车大力推进汽车消费!\"", GoodID: 1, PriceMultiplier: 3.0, Frequency: 37},
	{Kind: KindMarket, Message: "《北京真理报》社论：\"提倡爱美，落到实处\"，伪劣化妆品大受欢迎!", GoodID: 7, PriceMultiplier: 4.0, Frequency: 23},
	{Kind: KindMarket, Message: "北京有人狂饮山西假酒，可以卖出天价!", GoodID: 3, PriceMultiplier: 7.0, Frequency: 40},
	{Kind: KindMarket, Message: "北京的大学生们开始找工作，水货手机大受欢迎!", GoodID: 6, PriceMultiplier: 7.0, Frequency: 29},
	{Kind: KindMarket, Message: "北京的富人疯狂地购买走私汽车！价格狂升!", GoodID: 1, PriceMultiplier: 8.0, Frequency: 35},

	// Market crashes
	{Kind: KindMarket, Message: "市场上充斥着来自福建的走私香烟!", GoodID: 0, PriceMultiplier: 0.125, Frequency: 17},
	{Kind: KindMarket, Message: "北京的孩子们都忙于上网学习，进口玩具没人愿意买。", GoodID: 5, PriceMultiplier: 0.2, Frequency: 24},
	{Kind: KindMarket, Message: "盗版业十分兴旺，\"中国硅谷\"——中关村全是卖盗版VCD的村姑!", GoodID: 2, PriceMultiplier: 0.125, Frequency: 18},
}

// TotalFrequency returns the sum of all event weights in a catalog.
func TotalFrequency(catalog []Event) int {
	total := 0
	for _, e := range catalog {
		total += e.Frequency
	}
	return total
}

// Validate fails fast on malformed catalog data: non-positive weights or
// market events without a multiplier are programming errors.
func Validate(catalog []Event) error {
	for i, e := range catalog {
		if e.Frequency <= 0 {
			return fmt.Errorf("street catalog: event %d has non-positive frequency", i)
		}
		if e.Kind == KindMarket && e.PriceMultiplier <= 0 {
			return fmt.Errorf("street catalog: market event %d has no price multiplier", i)
		}
	}
	return nil
}
