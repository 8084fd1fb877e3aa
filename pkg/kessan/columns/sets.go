package columns

// Sets are the preferred column orders of the comparison tables. Columns a
// record adds beyond these follow in first-seen order.
var Sets = map[string][]string{
	"pl": {"売上高", "営業利益", "経常利益", "純利益"},
	"cf": {"営業CF", "投資CF", "財務CF", "フリーCF", ClosingCash},
}
