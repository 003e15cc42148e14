package street

// Tip is a strategy hint a player can buy from the street corner.
type Tip struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Author   string `json:"author"`
}

// Tips contains the original hint sheet.
var Tips = []Tip{
	{Text: "人生短暂，赚钱永恒。", Category: "财富论坛", Author: "新资本家"},
	{Text: "一切向钱看，才能向前看。", Category: "市场经济论坛", Author: "改革先驱者"},
	{Text: "盗版VCD和游戏软件很便宜，创业不妨从倒卖它们开始.", Category: "发财之道", Author: "中关村人"},
	{Text: "伪劣化妆品经常给您惊喜。", Category: "发财之道", Author: "一个富婆"},
	{Text: "人们啊！不要总是把目光放在便宜的货物上，要及时买卖贵物品，承担风险的同时赚大钱。", Category: "财神语录", Author: ""},
	{Text: "进多种货物，发展多种经营，可以避免风险。", Category: "《MBA速成》", Author: "John Smith"},
	{Text: "山西假白酒价格在1500元时可以买进了。", Category: "发财之道", Author: "一个老酒鬼"},
	{Text: "进口玩具价格在400元以下，可以大肆进货.", Category: "经验之谈", Author: "先富起来的人"},
	{Text: "走私汽车能够赚大钱，但是有时风险太大。", Category: "促进北京汽车消费", Author: "胡说者"},
	{Text: "谨慎！禁书《上海小宝贝》有时可以赚大钱（5000元左右买进），但是对青少年成长不利。", Category: "保护青少年", Author: "卫秽"},
	{Text: "进口香烟的平均价格好象是200元，很赚钱喔。", Category: "吸烟有害", Author: "烟草害人局"},
	{Text: "水货手机低于1200元时是发财好机会。", Category: "发展北京通信产业", Author: "吴鸡传"},
	{Text: "有时汽车能够让您赚500%的利润。", Category: "发财者言", Author: ""},
	{Text: "银行的利息是很低的：只有1%。但是还是要经常存钱，以免发生意外。", Category: "给市民的建议", Author: "银行"},
	{Text: "原始积累很必要，但是也很残酷。", Category: "《资本新论》", Author: "马克丝"},
	{Text: "胆子要大一点，脸皮要厚一点。", Category: "《赚钱黑厚学》", Author: "一个骗子"},
}
