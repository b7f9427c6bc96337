package entity

// JobEntry is one print-job row as the ledger endpoint expects it. Values are
// kept as typed by the operator; TotalAmount and BalAmt are always derived from
// the cost fields before the entry leaves the service.
type JobEntry struct {
	Date           string `json:"date" yaml:"date"`
	CustomerName   string `json:"customerName" yaml:"customerName"`
	JobSize        string `json:"jobSize" yaml:"jobSize"`
	PaperType      string `json:"paperType" yaml:"paperType"`
	Quantity       string `json:"quantity" yaml:"quantity"`
	IsFrontBack    bool   `json:"isFrontBack" yaml:"isFrontBack"`
	JobDetails     string `json:"jobDetails" yaml:"jobDetails"`
	CTP            string `json:"ctp" yaml:"ctp"`
	PaperBy        string `json:"paperBy" yaml:"paperBy"`
	Lamination     string `json:"lamination" yaml:"lamination"`
	Narration      string `json:"narration" yaml:"narration"`
	LaminationSize string `json:"laminationSize" yaml:"laminationSize"`
	EnvelopeSize   string `json:"envelopeSize" yaml:"envelopeSize"`
	CTPNo          string `json:"ctpNo" yaml:"ctpNo"`
	Cost           string `json:"cost" yaml:"cost"`
	PaperCost      string `json:"paperCost" yaml:"paperCost"`
	LamiCost       string `json:"lamiCost" yaml:"lamiCost"`
	EnveCost       string `json:"enveCost" yaml:"enveCost"`
	Received       string `json:"received" yaml:"received"`
	BalAmt         string `json:"balAmt" yaml:"balAmt"`
	TotalAmount    string `json:"totalAmount" yaml:"totalAmount"`
}
