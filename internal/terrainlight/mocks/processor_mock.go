package mocks

// MockProcessor はテスト用のProcessorモック。
// 処理したパスを記録し、ErrorForに登録されたパスでは失敗します。
type MockProcessor struct {
	Processed []string
	ErrorFor  map[string]error
}

// NewMockProcessor は新しいMockProcessorを作成します
func NewMockProcessor() *MockProcessor {
	return &MockProcessor{
		ErrorFor: make(map[string]error),
	}
}

// ProcessFile は呼び出されたパスを記録します
func (p *MockProcessor) ProcessFile(path string) error {
	p.Processed = append(p.Processed, path)
	return p.ErrorFor[path]
}
