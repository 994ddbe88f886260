package models

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportForm_Validate(t *testing.T) {
	tests := []struct {
		name       string
		form       ReportForm
		wantFields []string
	}{
		{
			name: "complete form",
			form: ReportForm{Name: "Ana", Reason: "sem_sinal", Message: "teste"},
		},
		{
			name:       "everything missing",
			form:       ReportForm{},
			wantFields: []string{"nome", "motivo", "mensagem"},
		},
		{
			name:       "whitespace only name and message",
			form:       ReportForm{Name: "  ", Reason: "outro", Message: "\n\t"},
			wantFields: []string{"nome", "mensagem"},
		},
		{
			name: "alternate contact is optional",
			form: ReportForm{Name: "Ana", Reason: "lentidao", Message: "x", AlternateContact: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrorValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	v := &ValidationError{}
	v.Add("senha", "obrigatória")
	v.Add("email", "obrigatório")
	v.Add("email", "ignored duplicate")

	assert.Equal(t, "validation error: email: obrigatório; senha: obrigatória", v.Error())
}

func TestValidationError_OrNil(t *testing.T) {
	assert.Nil(t, (&ValidationError{}).OrNil())
}

func TestReasonLabel(t *testing.T) {
	assert.Equal(t, "Sem sinal", ReasonLabel("sem_sinal"))
	assert.Equal(t, "Queda de conexão", ReasonLabel("queda_conexao"))
	assert.Equal(t, "custom", ReasonLabel("custom"))
}

func TestReportStatus_Valid(t *testing.T) {
	assert.True(t, StatusQueued.Valid())
	assert.True(t, StatusSent.Valid())
	assert.True(t, StatusFailed.Valid())
	assert.False(t, ReportStatus("delivered").Valid())
}

func TestReport_JSONNames(t *testing.T) {
	r := Report{
		ID: "1", Timestamp: 10, ReporterName: "Ana", ReasonLabel: "Sem sinal",
		Message: "m", Content: "c", Status: StatusQueued,
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, key := range []string{"id", "timestamp", "nome", "motivo", "contatoAlternativo", "mensagem", "content", "status"} {
		assert.Contains(t, raw, key)
	}
}

func TestReport_Fields(t *testing.T) {
	r := &Report{ReporterName: "Ana", ReasonLabel: "Sem sinal", AlternateContact: "62", Message: "m"}
	assert.Equal(t, ReportFields{Name: "Ana", Reason: "Sem sinal", AlternateContact: "62", Message: "m"}, r.Fields())
}
