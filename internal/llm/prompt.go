package llm

// Recognition prompts, in escalation order. The primary asks for a plain
// line-by-line transcription; the second is a stricter rephrase for models
// that drift into summarizing; the last is an English fallback. The
// document corpus is mixed Chinese/English, so the primary prompts are
// written in Chinese.
var RecognitionPrompts = []string{
	"请只返回图片/PDF页面中的**全部可见文字**，按从上到下顺序逐行输出。不要做邮箱界面判断，不要加入---占位符，不要输出JSON，不要总结。输出所有识别到的文字，包括标题、正文、日期、作者等所有内容。",
	"请只返回图片中的全部可见文字，逐行输出。不要做界面判断，不要加入占位符。",
	"Extract all visible text from the image line by line. Output only the text, no placeholders.",
}

// StructuringSystemPrompt pins the second-stage model to strict JSON output.
const StructuringSystemPrompt = "你是一个严谨的JSON信息抽取器。"

// StructuringPrompt enumerates the output schema and the date
// disambiguation rules for the second stage. The received/available_online
// distinction matters most: footer citation lines routinely push the wrong
// date into available_online.
const StructuringPrompt = `你是学术文档信息抽取助手。下面是OCR识别得到的原始文本（可能包含论文首页、录用通知、邮件、网页截图等）。请从中提取论文关键信息并输出严格JSON。

重要提示：
1) 如果文本中包含"收件箱"、"草稿箱"等邮箱界面词汇，但同时也包含论文相关信息（如论文名称、作者、录用日期等），请判断为【邮件】类型，并提取其中的论文信息。
2) 不要因为出现"收件箱"就判为界面，要检查是否包含实际的论文/录用信息。
3) 对于邮件场景，重点关注：邮件主题/托举对象、论文名称、作者、录用日期、发件人邮箱等信息。

日期提取规则（非常重要）：
1) received（投稿日期）：查找"Received"、"Received:"、"Received in revised form"等关键词后的日期。这是论文最初投稿的日期。
2) received_in_revised（修改后投稿日期）：查找"Received in revised form"、"Revised"、"Revised:"等关键词后的日期。这是修改后重新投稿的日期。
3) accepted（接受日期）：查找"Accepted"、"Accepted:"、"录用日期"、"同意录用"等关键词后的日期。这是论文被接受的日期。
4) available_online（在线发表日期）：查找"Available online"、"Available online:"、"Published online"等关键词后的日期。这是论文在线发表的日期，通常出现在论文首页底部或期刊信息附近。

重要区分：
- "Received"和"Available online"是不同的日期类型，不要混淆。
- "Received"通常出现在论文首页顶部或摘要附近，表示投稿日期。
- "Available online"通常出现在论文首页底部或期刊信息附近，表示在线发表日期。
- 如果文本中同时存在"Received"和"Available online"，必须分别提取，不要将"Received"的日期填入"available_online"字段。

要求：
1) 只输出一个JSON对象，不要输出任何额外文字、不要使用Markdown代码块。
2) 若缺失，填写 "Not mentioned"。
3) 日期请尽量标准化为 YYYY-MM-DD；若只出现到月份/年份，保留原样并在 confidence_note 说明不确定性。
4) first_author字段：提取第一作者的全名（如果作者列表中有多个作者，取第一个）。
5) is_co_first字段：判断第一作者是否为共一作者。如果作者列表中第一个作者名字旁边有"*"、"†"、"‡"等共一标记，或者明确标注"co-first author"、"共同第一作者"等，则填写true，否则填写false。

输出JSON格式（字段名必须一致）：
{
  "document_type": "[论文首页/录用通知/邮件/其他]",
  "title": "",
  "first_author": "",
  "is_co_first": false,
  "authors": "",
  "dates": {
    "received": "",
    "received_in_revised": "",
    "accepted": "",
    "available_online": ""
  },
  "confidence_note": ""
}`
