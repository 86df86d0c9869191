package llm

// Prompts for the three AI collaborators. All of them pin the output
// format hard, since responses are schema-validated at the boundary.

const UserPromptExtraction = `You are an expert invoice data extraction system. Extract structured data from this invoice.

Return a JSON object with this EXACT structure:
{
    "invoice_number": "invoice number or ID",
    "vendor_name": "vendor or supplier name",
    "invoice_date": "date in YYYY-MM-DD format if possible",
    "line_items": [
        {
            "description": "product or service description",
            "quantity": numeric_quantity,
            "unit_price": numeric_price_per_unit
        }
    ],
    "notes": "any special notes, terms, or observations"
}

Important:
- Extract ALL line items from the invoice
- For quantities and prices, use numbers only (no currency symbols or commas)
- If a field is not found, use null or empty string
- Be precise with line item descriptions
- Return ONLY valid JSON, no additional text`

// UserPromptExtractionText is appended when embedded PDF text is
// available alongside the rendered page.
const UserPromptExtractionText = `

Extracted text from PDF:
%s`

const SystemPromptClassifier = `You are a precise tax category classifier. You must select the most specific matching category from the provided list. Always prefer specific categories (e.g., 'Car Batteries') over general ones (e.g., 'Batteries').`

const UserPromptClassification = `You are a tax classification expert for retail products. Given a product description, identify the MOST SPECIFIC and appropriate tax category from the list below.

Product Description: %s

Available Tax Categories:
%s

IMPORTANT CLASSIFICATION RULES:
1. Choose the MOST SPECIFIC category that matches the product
2. For automotive products:
   - Use "Car Batteries" for automotive/vehicle batteries (AGM, lead-acid, etc.)
   - Use "Batteries" only for household batteries (AA, AAA, D, etc.)
   - Use "Motor Oil" for engine oils and lubricants
   - Use "Automotive Parts" for general auto parts (filters, spark plugs, brake pads)
   - Use "Tires" for vehicle tires
3. For beverages:
   - Use "Alcoholic Beverages" for beer, wine, spirits
   - Use "Soft Drinks" for soda, carbonated drinks
   - Use "Coffee & Tea" for coffee and tea products
   - Use "Bottled Water" for plain water
4. Always prefer specific categories over general ones
5. Look for brand names and technical specifications as clues (e.g., "CCA" indicates car battery)

Return ONLY the exact category name from the list above. Do not include explanation.`

// UserPromptClassificationRetry is the single corrective follow-up
// issued when the first answer is not a member of the valid set.
const UserPromptClassificationRetry = `Your previous answer %q is not in the list of valid categories.

Product Description: %s

Available Tax Categories:
%s

Return ONLY one exact category name copied verbatim from the list above. No explanation, no punctuation.`

const SystemPromptExemption = `You are a tax compliance expert. Answer only YES or NO.`

const UserPromptExemption = `You are a tax compliance expert. Analyze the following invoice notes and determine if this invoice should be TAX-EXEMPT (no taxes should be applied).

Invoice Notes: "%s"

Look for any indication that:
- Tax should not be applied
- Items are tax-exempt
- Invoice is tax-free
- No tax is required
- Tax is waived or not applicable

Respond with ONLY "YES" if the invoice is tax-exempt, or "NO" if taxes should be applied normally.
Do not include any explanation.`
