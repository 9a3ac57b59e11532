package gemini

import "google.golang.org/genai"

func stringSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

// QuestionBatchSchema is the response schema of one generated question batch.
var QuestionBatchSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":             stringSchema(""),
			"subject":        stringSchema("Matematika atau Bahasa Indonesia"),
			"topic":          stringSchema(""),
			"type":           stringSchema("Pilihan Ganda, Pilihan Ganda Kompleks (MCMA), atau Pilihan Ganda Kompleks (Kategori)"),
			"cognitiveLevel": stringSchema("L1 (Pemahaman), L2 (Penerapan), atau L3 (Penalaran)"),
			"text":           stringSchema(""),
			"passage":        stringSchema("Teks stimulus/bacaan untuk Literasi atau konteks Numerasi"),
			"options": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"correctAnswer": stringSchema("Kunci jawaban. Jika pilihan ganda kompleks, gunakan format string array JSON [\"A\", \"B\"]. " +
				"Jika kategori, gunakan format string object JSON {\"0\": \"Benar\", \"1\": \"Salah\"}."),
			"categories": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"statement": stringSchema(""),
						"category":  stringSchema(""),
					},
				},
			},
			"explanation": stringSchema("Penjelasan ilmiah berdasarkan konsep kurikulum merdeka"),
		},
		Required: []string{"id", "subject", "topic", "type", "text", "correctAnswer", "cognitiveLevel"},
	},
}
