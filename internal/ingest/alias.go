package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/verdantops/greenscore/internal/scoring"
)

// AliasTable maps questionnaire column labels to stable question keys. The
// questionnaire wording changes between revisions, so the table is versioned
// and loadable from disk; scoring code only ever sees the stable keys.
type AliasTable struct {
	Version string `json:"version"`

	PropertyScores   map[string]string `json:"property_scores"`   // column label -> dimN_M
	FunctionalScores map[string]string `json:"functional_scores"` // column label -> dimN_M

	PropertyFeedback   map[string]string `json:"property_feedback"`   // column label -> feedback tag
	FunctionalFeedback map[string]string `json:"functional_feedback"` // column label -> feedback tag

	Attributes scoring.AttributeAliases `json:"attributes"`

	// Candidate labels for the metadata columns, tried in order.
	SupplierName []string `json:"supplier_name"`
	ServiceArea  []string `json:"service_area"`
	RaterName    []string `json:"rater_name"`
	RaterOrg     []string `json:"rater_org"`
	RaterPhone   []string `json:"rater_phone"`
	Date         []string `json:"date"`
}

// LoadAliasTable reads an AliasTable from a JSON file, falling back to the
// built-in table when the file does not exist.
func LoadAliasTable(path string) (AliasTable, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultAliasTable(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return AliasTable{}, fmt.Errorf("failed to open alias table: %w", err)
	}
	defer file.Close()

	table := DefaultAliasTable()
	if err := json.NewDecoder(file).Decode(&table); err != nil {
		return AliasTable{}, fmt.Errorf("failed to decode alias table: %w", err)
	}

	return table, nil
}

func (t AliasTable) scoreColumns(category scoring.Category) map[string]string {
	if category == scoring.CategoryPropertyManager {
		return t.PropertyScores
	}
	return t.FunctionalScores
}

func (t AliasTable) feedbackColumns(category scoring.Category) map[string]string {
	if category == scoring.CategoryPropertyManager {
		return t.PropertyFeedback
	}
	return t.FunctionalFeedback
}

// DefaultAliasTable matches the 2025 questionnaire revision.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		Version: "2025.1",
		PropertyScores: map[string]string{
			"植物知识与养护技能： 供应商团队对植物种类、生长习性及养护方法的了解程度和操作规范性如何？":            "dim1_1",
			"病虫害防治与处理能力： 供应商对病虫害的识别、预防和有效处理能力如何？":                         "dim1_2",
			"绿化设计理解与实施能力（仅限租摆服务） ：供应商是否能较好地理解设计意图并高质量地实施植物配置与摆放？":          "dim1_3",
			"季节性及气候适应性经验： 供应商是否能根据季节气候变化，制定并实施有针对性的养护方案？":                  "dim1_4",
			"人员组织与调度能力： 供应商在人员组织、调度和响应现场需求方面的能力如何？":                       "dim2_1",
			"现场团队管理与监督： 您观察到供应商的现场团队是否有规范的管理和监督，员工责任心和执行力如何？":             "dim2_2",
			"与项目现场人员协作： 供应商团队与贵物管处现场人员的沟通协作是否顺畅、高效？":                     "dim2_3",
			"异常情况应对能力： 供应商在面对突发事件（如突发天气、植物损坏）时的响应速度和处理效果如何？":             "dim2_4",
			"现场沟通与报告机制： 供应商是否能及时、准确地进行现场沟通和工作汇报？":                         "dim2_5",
			"服务态度与响应性： 供应商的服务态度是否积极主动，对您的要求或反馈能否迅速响应？":                   "dim2_6",
			"供应商的专业形象： 您认为供应商的企业形象、员工着装及行为举止是否专业得体？":                     "dim2_7",
			"绿植健康与外观： 贵项目区域的绿植整体健康状况、长势以及外观美观度如何？":                       "dim3_1",
			"维护任务及时性与规范性： 供应商是否严格按照约定时间和标准完成维护任务（如浇水、修剪、施肥）":             "dim3_2",
			"现场环境整洁度： 供应商在作业过程中和作业结束后，是否能保持现场环境的整洁？":                     "dim3_3",
			"养护方案针对性与有效性： 供应商提供的养护方案是否针对贵项目特点，并取得了良好效果？":                 "dim3_4",
			"现有客户反馈： 您对该供应商在现有项目（贵项目）上的服务是否满意，是否会向其他项目推荐？":               "dim4_1",
			"行业口碑与信誉： 据您了解，该供应商在行业内的声誉和口碑如何？":                           "dim4_2",
			"定价透明度与合理性： 供应商的报价是否清晰、透明，各项服务内容与费用是否明确？":                    "dim5_1",
			"报价包含项与潜在费用： 供应商的报价是否全面详细，基本包含所有服务，无隐藏费用？":                   "dim5_2",
			"服务内容与价格匹配度： 您认为该供应商提供的服务与您所支付的费用相比，性价比如何？":                  "dim5_3",
			"额外收费合理性： 在合同执行过程中，供应商提出的额外服务或费用是否合理？":                       "dim5_4",
			"安全操作规程与培训： 您是否观察到供应商员工遵守安全操作规程，并配备相应安全设备？":                  "dim6_1",
			"安全设备使用与管理： 供应商是否规范使用各类安全设备，并定期检查维护？":                        "dim6_2",
			"现场安全管理与监督： 作业现场是否有专人负责安全管理，能有效排除安全隐患？":                      "dim6_3",
			"环保措施与废弃物处理： 供应商对绿化废弃物的处理是否符合环保要求，现场无随意堆放现象？":                "dim6_4",
			"对公共设施的保护： 供应商在作业过程中是否注意保护周边公共设施，避免损坏或污染？":                   "dim6_5",
			"人员配置充足性： 供应商派驻的人员数量是否能满足项目需求，在工作高峰期能否及时补充人力？":               "dim7_1",
			"应对突发或临时需求能力： 供应商在面对临时性的增加工作或紧急要求时，是否能灵活调配资源并高效完成？":          "dim7_2",
			"劳动合同与社保合规： 您是否观察到供应商有规范的员工管理，包括劳动合同、社保等方面？":                 "dim8_1",
			"合同执行与履约能力： 供应商是否严格按照合同约定提供服务，履约能力如何？":                       "dim8_2",
		},
		FunctionalScores: map[string]string{
			"技术方案专业性： 供应商提交的技术方案、养护计划是否体现专业水平，内容科学合理？":                 "dim1_1",
			"专业资质完备性： 供应商及其核心技术人员是否具备相应的专业资质证书（如园艺师、绿化工程师等）？":         "dim1_2",
			"技术问题解决能力： 当遇到复杂绿化技术问题时，供应商是否能提供专业的解决方案？":                 "dim1_3",
			"专业建议与创新 ： 供应商是否主动提出有价值的专业建议或采用新技术改进服务质量？":                "dim1_4",
			"组织架构合理性： 供应商的人员配置和组织架构是否合理，关键岗位是否配备有经验的管理人员？":            "dim2_1",
			"人员稳定性： 供应商的核心管理和技术人员是否稳定，人员流动是否在合理范围内？":                  "dim2_2",
			"内部协调配合： 供应商在多项目管理和与公司各部门配合方面的表现如何？":                      "dim2_3",
			"沟通响应效率： 供应商对公司内部部门的需求或问题，响应是否及时有效？":                      "dim2_4",
			"服务态度专业性： 供应商员工的整体服务态度、专业形象和职业素养如何？":                      "dim2_5",
			"质量标准制定： 供应商是否制定了明确、可操作的服务质量标准和考核指标？":                     "dim3_1",
			"质量管理体系： 供应商是否建立了完善的质量管理体系，包括自检、整改、持续改进机制？":               "dim3_2",
			"服务标准化程度： 供应商在不同项目间是否能保持服务质量的一致性和标准化？":                    "dim3_3",
			"问题处理及时性： 当出现服务质量问题时，供应商的发现、报告和处理是否及时有效？":                "dim3_4",
			"行业口碑调研： 通过市场调研了解到的供应商在行业内的声誉和口碑如何？":                      "dim4_1",
			"参考客户质量： 供应商提供的参考客户推荐质量如何，是否为知名企业或长期合作伙伴？":               "dim4_2",
			"荣誉资质情况： 供应商是否获得过行业奖项、政府表彰或权威机构认可？":                      "dim4_3",
			"报价透明规范： 供应商的报价是否详细透明，成本构成清晰，便于审计和成本分析？":                 "dim5_1",
			"价格竞争优势： 在保证服务质量前提下，供应商的报价在市场中是否具有竞争力？":                  "dim5_2",
			"结算流程规范： 供应商的费用结算流程是否规范，发票开具是否及时、准确、合规？":                 "dim5_3",
			"成本优化能力： 供应商是否主动提出成本控制或优化方案，并在实际中体现成本效益？":                "dim5_4",
			"安全管理体系： 供应商是否建立了完善的安全生产管理体系和应急预案？":                      "dim6_1",
			"环保管理规范： 供应商是否建立了完善的环境保护管理体系和废弃物处理流程？":                   "dim6_2",
			"保险配置完备： 供应商是否按要求购买了足额的劳务/工程保险，有效覆盖潜在风险？":                "dim6_3",
			"安全事故记录： 供应商的安全作业记录如何，是否曾发生安全事故或环保违规？":                   "dim6_4",
			"资源储备充足性： 供应商的人力、设备等资源储备是否充足，组织架构是否健全？":                  "dim7_1",
			"多项目承接能力： 供应商是否具备同时承接多个项目的管理能力和资源调配能力？":                  "dim7_2",
			"应急响应机制： 供应商是否建立了有效的应急响应机制，能快速处理突发情况和临时需求？":               "dim7_3",
			"法规遵循程度： 供应商对绿化服务相关法律法规的了解程度及遵循情况如何？":                     "dim8_1",
			"合同条款合规性： 供应商在合同谈判中是否确保条款清晰、公平，充分保护双方权益？":                "dim8_2",
			"资质证照完备： 供应商是否具备开展绿化服务所需的全部营业执照、专业资质和行业许可？":               "dim8_3",
			"风险防控能力： 供应商是否能有效识别和规避潜在的法律或合规风险？":                       "dim8_4",
			"履约诚信度： 供应商的合同执行情况和履约能力如何，是否严格按约定提供服务？":                  "dim8_5",
		},
		PropertyFeedback: map[string]string{
			"优秀案例： 请您列举该供应商在服务过程中，令您印象深刻的优点或特别优秀的具体事例（请尽量具体描述事件、时间和影响）。":     scoring.FeedbackPositiveCase,
			"您对于供应商优秀事项的描述：": scoring.FeedbackPositiveDescription,
			"问题案例： 请您列举该供应商在服务过程中，您认为需要改进的方面或遇到的具体问题（请尽量具体描述事件、时间和影响）。":     scoring.FeedbackNegativeCase,
			"您对于供应商问题案例的描述：": scoring.FeedbackNegativeDescription,
			"改进建议 您对该供应商的服务有哪些具体的改进建议？或者对本次评估体系有什么意见？":                      scoring.FeedbackSuggestions,
		},
		FunctionalFeedback: map[string]string{
			"优秀案例： 请您列举该供应商在与本部门协作过程中，令您印象深刻的优点或特别优秀的具体事例（请尽量具体描述事件、时间和影响）。": scoring.FeedbackPositiveCase,
			"您的描述：": scoring.FeedbackPositiveDescription,
			"问题案例： 请您列举该供应商在与本部门协作过程中，您认为需要改进的方面或遇到的具体问题（请尽量具体描述事件、时间和影响）。": scoring.FeedbackNegativeCase,
			"改进建议： 您对该供应商的服务或有哪些具体的改进建议？": scoring.FeedbackSuggestions,
		},
		Attributes:   scoring.DefaultAttributeAliases(),
		SupplierName: []string{"绿化外包供应商", "考核供应商名称", "供应商名称"},
		ServiceArea:  []string{"服务地区", "所属地区"},
		RaterName:    []string{"姓名"},
		RaterOrg:     []string{"物管处名称（全称）", "部门"},
		RaterPhone:   []string{"手机号码"},
		Date:         []string{"日期", "提交时间"},
	}
}
