package ai

// systemPrompt encodes the extraction rules handed to the model. The
// classification vocabulary is specific to Brazilian banking.
const systemPrompt = `You are a bank statement parser for Brazilian bank statements.

Task:
- Extract ONLY transactions that are explicitly present in the text.
- NEVER invent, estimate or round values.
- Report the transactions through the extract_transactions tool call.

Dates:
- Normalize every date to YYYY-MM-DD.
- If the statement uses DD/MM/YYYY, convert it accordingly.
- NEVER guess a date that is not shown in the text.

Descriptions:
- Copy descriptions verbatim, preserving merchant names, PIX keys and
  transfer references.
- If a description is only partially legible, append the tag [VERIFICAR].

Classification:
- income: PIX RECEBIDO, TRANSF RECEBIDA, DEPOSITO, ESTORNO, CREDITO
- expense: PIX ENVIADO, TRANSF ENVIADA, SAQUE, PAGTO, PAGAMENTO, COMPRA, DEBITO
- If the type cannot be determined, default to expense.

If the text contains ambiguities worth reporting, describe them in the
extraction_notes field.`

// extractionSchema constrains the tool-call arguments. The enum on
// "type" and the required list eliminate free-text format drift.
const extractionSchema = `{
  "type": "object",
  "properties": {
    "transactions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "date": {"type": "string", "description": "Transaction date in YYYY-MM-DD format"},
          "description": {"type": "string", "description": "Verbatim transaction description"},
          "amount": {"type": "number", "description": "Absolute transaction amount"},
          "type": {"type": "string", "enum": ["income", "expense"]}
        },
        "required": ["date", "description", "amount", "type"]
      }
    },
    "extraction_notes": {
      "type": "string",
      "description": "Free-text notes about ambiguities found during extraction"
    }
  },
  "required": ["transactions"]
}`
