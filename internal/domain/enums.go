package domain

// TripType classifies who is travelling. A requirement carries at most one.
type TripType string

const (
	TripFamily       TripType = "family"
	TripGraduation   TripType = "graduation"
	TripCouple       TripType = "couple"
	TripFriends      TripType = "friends"
	TripSolo         TripType = "solo"
	TripHoneymoon    TripType = "honeymoon"
	TripWithChildren TripType = "family-with-children"
	TripCorporate    TripType = "corporate"
)

// Label returns the display label shown to users.
func (t TripType) Label() string {
	switch t {
	case TripFamily:
		return "家族旅遊"
	case TripGraduation:
		return "畢業旅行"
	case TripCouple:
		return "情侶出遊"
	case TripFriends:
		return "朋友聚會"
	case TripSolo:
		return "一個人旅行"
	case TripHoneymoon:
		return "蜜月旅行"
	case TripWithChildren:
		return "親子旅遊"
	case TripCorporate:
		return "公司旅遊"
	}
	return string(t)
}

// Preference is a travel-style category tag.
type Preference string

const (
	PrefFood        Preference = "food"
	PrefNature      Preference = "nature"
	PrefCulture     Preference = "culture"
	PrefRelax       Preference = "relax"
	PrefAdventure   Preference = "adventure"
	PrefShopping    Preference = "shopping"
	PrefPhotography Preference = "photography"
)

// Label returns the display label shown to users.
func (p Preference) Label() string {
	switch p {
	case PrefFood:
		return "美食"
	case PrefNature:
		return "自然"
	case PrefCulture:
		return "文化"
	case PrefRelax:
		return "放鬆"
	case PrefAdventure:
		return "冒險"
	case PrefShopping:
		return "購物"
	case PrefPhotography:
		return "攝影"
	}
	return string(p)
}

// SpecialNeed is a constraint the itinerary has to respect.
type SpecialNeed string

const (
	NeedAccessibility SpecialNeed = "accessibility"
	NeedVegetarian    SpecialNeed = "vegetarian"
	NeedPet           SpecialNeed = "pet"
	NeedChildren      SpecialNeed = "children"
)

// Label returns the display label shown to users.
func (n SpecialNeed) Label() string {
	switch n {
	case NeedAccessibility:
		return "需要無障礙設施"
	case NeedVegetarian:
		return "素食"
	case NeedPet:
		return "攜帶寵物"
	case NeedChildren:
		return "有小孩同行"
	}
	return string(n)
}

// KeywordRule associates a tag with the keywords that signal it.
type KeywordRule[T ~string] struct {
	Tag      T
	Keywords []string
}

// TripTypeRules is ordered by priority: the extractor assigns the first
// rule whose keywords appear in the message. More specific types come
// before the generic ones they overlap with (蜜月旅行 before 旅行, 帶小孩
// before 家人).
var TripTypeRules = []KeywordRule[TripType]{
	{TripHoneymoon, []string{"蜜月", "新婚"}},
	{TripGraduation, []string{"畢業", "畢旅"}},
	{TripWithChildren, []string{"親子", "帶小孩", "帶孩子", "兒童", "小朋友"}},
	{TripCouple, []string{"情侶", "男友", "女友", "男朋友", "女朋友", "另一半", "老公", "老婆", "約會"}},
	{TripCorporate, []string{"公司", "員工旅遊", "同事", "團建", "企業"}},
	{TripFamily, []string{"家人", "家族", "全家", "爸媽", "父母", "家庭"}},
	{TripFriends, []string{"朋友", "好友", "同學", "閨蜜"}},
	{TripSolo, []string{"一個人", "獨自", "獨旅", "自己去", "solo"}},
}

// PreferenceRules lists every preference in canonical order. All matching
// preferences are assigned.
var PreferenceRules = []KeywordRule[Preference]{
	{PrefFood, []string{"美食", "吃", "小吃", "餐廳", "夜市"}},
	{PrefNature, []string{"自然", "風景", "山", "海", "戶外", "大自然", "步道"}},
	{PrefCulture, []string{"文化", "歷史", "古蹟", "博物館", "廟宇", "老街"}},
	{PrefRelax, []string{"放鬆", "慢活", "悠閒", "休息", "度假", "溫泉"}},
	{PrefAdventure, []string{"冒險", "刺激", "挑戰", "極限", "衝浪", "潛水"}},
	{PrefShopping, []string{"購物", "買", "逛街", "商圈", "百貨"}},
	{PrefPhotography, []string{"攝影", "拍照", "打卡", "網美"}},
}

// SpecialNeedRules lists every special need in canonical order. All
// matching needs are assigned.
var SpecialNeedRules = []KeywordRule[SpecialNeed]{
	{NeedAccessibility, []string{"無障礙", "輪椅", "行動不便"}},
	{NeedVegetarian, []string{"素食", "吃素", "蔬食"}},
	{NeedPet, []string{"寵物", "狗", "貓"}},
	{NeedChildren, []string{"小孩", "孩子", "兒童", "小朋友", "嬰兒"}},
}

// TripStatus is the lifecycle state of a TripRecord.
type TripStatus string

const (
	TripPlanning  TripStatus = "planning"
	TripOngoing   TripStatus = "ongoing"
	TripCompleted TripStatus = "completed"
)

// Label returns the display label shown to users.
func (s TripStatus) Label() string {
	switch s {
	case TripPlanning:
		return "計劃中"
	case TripOngoing:
		return "進行中"
	case TripCompleted:
		return "已完成"
	}
	return string(s)
}

// CanTransition reports whether a trip may move from one status to another.
// Status only moves forward.
func CanTransition(from, to TripStatus) bool {
	switch from {
	case TripPlanning:
		return to == TripOngoing || to == TripCompleted
	case TripOngoing:
		return to == TripCompleted
	}
	return false
}

// PlanSource records where an itinerary came from.
type PlanSource string

const (
	SourceLLM      PlanSource = "llm"
	SourceTemplate PlanSource = "template"
	SourceGeneric  PlanSource = "generic"
)

// IsDegraded reports whether the plan was produced without the generative backend.
func (s PlanSource) IsDegraded() bool {
	return s == SourceTemplate || s == SourceGeneric
}
