package llm

// suitabilityPrompt asks for a strict JSON object so the response can be
// decoded after JSON-span extraction. Filled with title, channel, description.
const suitabilityPrompt = `다음 YouTube 영상이 블로그 칼럼 소재로 적합한지 평가해 주세요.

제목: %s
채널: %s
설명: %s

아래 JSON 형식으로만 답변하세요. 다른 텍스트는 포함하지 마세요:
{
  "suitable": true 또는 false,
  "score": 1에서 10 사이의 정수,
  "type": "강연/교육" | "뉴스/트렌드" | "튜토리얼" | "리뷰/분석" | "인터뷰",
  "reason": "판단 이유",
  "column_angle": "칼럼 관점 (suitable이 true일 때만)",
  "key_message": "핵심 메시지 한 문장"
}`
