package scorer

// Keyword lexicons for Korean financial news. Sentiment matching is
// ratio-based over these lists, with compound expressions taking priority
// over single keywords and a negation window reversing polarity.

// positiveKeywords signal expected price upside
var positiveKeywords = []string{
	// growth / results
	"상승", "증가", "성장", "호재", "실적 호조", "실적 개선", "수익 증가",
	"매출 증가", "영업이익 증가", "순이익 증가", "실적 부진 탈출",
	"반등", "회복", "개선", "향상", "증대", "확대", "성공", "최고치", "사상 최대",

	// investment / contracts
	"투자 유치", "계약 체결", "수주", "납품", "공급 계약", "독점",
	"제휴", "협력", "파트너십", "업무협약",

	// positive outlook
	"긍정적", "낙관적", "기대", "전망 밝다", "유리하다", "재평가",
	"강세", "상승세", "상승 전망", "목표가 상향", "투자의견 상향", "매수 추천",

	// technology / innovation
	"기술 개발", "특허", "신제품", "혁신", "세계 최초", "국내 최초",

	// market reaction
	"러브콜", "잭팟",

	// leading indicators
	"수주 잔고 증가", "신규 수주", "공급 부족", "품절", "대기 수요",
	"가이던스 상향", "컨센서스 상회", "어닝 서프라이즈",
	"자사주 매입", "배당 확대", "배당 증가",
}

// negativeKeywords signal expected price downside
var negativeKeywords = []string{
	// decline / losses
	"하락", "감소", "손실", "부진", "실적 부진", "실적 악화",
	"수익 감소", "매출 감소", "영업이익 감소", "순이익 감소",
	"적자", "손해", "채무", "부채 증가", "자본잠식",

	// negative outlook
	"부정적", "비관적", "우려", "우려 증대", "리스크", "불확실성",
	"약세", "하락세", "하락 전망", "목표가 하향", "투자의견 하향", "매도 의견",

	// incidents / enforcement
	"사고", "사건", "논란", "분쟁", "법적 대응",
	"제재", "조사", "수사", "기소", "압수수색", "벌금", "과징금",

	// leading indicators
	"수주 감소", "재고 증가", "가동률 하락",
	"가이던스 하향", "컨센서스 하회", "어닝 쇼크",
	"유상증자", "CB 발행", "대주주 매도", "지분 매각",

	// management problems
	"경영진 교체", "사퇴", "해임", "경영 위기", "횡령", "배임",
	"파업", "노조", "갈등", "내분",

	// market selling
	"폭락", "급락", "매도", "매도세", "하락 압력", "공매도", "반대매매",
}

// strongPositive keywords add a sentiment bonus when found in the title
var strongPositive = []string{"공급계약", "수주 성공", "영업이익 폭증", "인수 합병", "임상 성공", "상한가"}

// strongNegative keywords subtract a sentiment penalty when found in the title
var strongNegative = []string{"상장폐지", "횡령", "배임", "영업이익 급감", "임상 실패", "부도", "하한가"}

// compoundExpression pairs a multi-word phrase with its sentiment.
// Matched before single keywords: "하락 우려 해소" is positive even though
// both "하락" and "우려" are negative on their own.
type compoundExpression struct {
	phrase    string
	sentiment int
}

var compoundExpressions = []compoundExpression{
	// positive despite negative constituents
	{"하락 우려 해소", 1},
	{"우려 해소", 1},
	{"우려 불식", 1},
	{"부진 탈출", 1},
	{"적자 탈출", 1},
	{"하락세 반등", 1},
	{"하락세에서 반등", 1},
	{"약세 탈피", 1},
	{"손실 만회", 1},
	{"위기 극복", 1},
	{"리스크 해소", 1},
	{"불확실성 해소", 1},
	{"매도세 진정", 1},
	{"하락 제한적", 1},
	// negative despite positive constituents
	{"상승세 꺾여", -1},
	{"상승세 꺾이", -1},
	{"상승 기대 꺾", -1},
	{"성장 둔화", -1},
	{"성장세 둔화", -1},
	{"회복 지연", -1},
	{"반등 실패", -1},
	{"기대 이하", -1},
	{"기대에 못 미치", -1},
	{"기대 못 미치", -1},
	{"호재 소진", -1},
	{"강세 꺾여", -1},
	{"강세 꺾이", -1},
	{"상승 제한적", -1},
	{"개선 더뎌", -1},
	{"회복 더뎌", -1},
	{"수주 감소", -1},
}

// negationWords flip the polarity of a sentiment keyword when one appears
// within negationWindow words before it
var negationWords = []string{
	"안", "못", "없", "아닌", "않", "꺾", "불", "미",
	"무산", "철회", "취소", "중단", "포기", "실패",
}

// negationWindow is how many preceding words are scanned for negation
const negationWindow = 2

// importanceKeywords raise an article's importance score
var importanceKeywords = []string{
	"실적 발표", "분기 실적", "연간 실적", "공시", "공시사항",
	"인수합병", "M&A", "합병", "인수", "매각",
	"신규 사업", "사업 확장", "투자 결정", "대규모 투자",
	"CEO", "경영진", "주주총회", "배당",
	"상장", "상장폐지", "관리종목", "거래정지",
	"규제", "정부 정책", "법안", "세법",
}

// impactKeywords raise an article's market-impact score
var impactKeywords = []string{
	"대형", "메가", "조 단위", "억 단위",
	"최초", "최대", "최고", "역대",
	"급등", "급락", "폭등", "폭락",
	"상한가", "하한가", "서킷브레이커",
	"외국인 매수", "외국인 매도", "기관 매수", "기관 매도",
}

// sourceCredibility weights importance by source authority.
// Exchange disclosures carry the highest credibility.
var sourceCredibility = map[string]float64{
	"hankyung":       0.8,
	"mk_news":        0.8,
	"naver_finance":  0.9,
	"krx_disclosure": 1.0,
}

// categoryWeight weights importance by news category
var categoryWeight = map[string]float64{
	"증시":   1.0,
	"금융시장": 1.0,
	"경제":   0.9,
	"산업":   0.8,
	"기술":   0.8,
	"국제":   0.7,
	"유통":   0.7,
}

// defaultCredibility applies to unknown sources and categories
const defaultCredibility = 0.5
