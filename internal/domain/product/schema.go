package product

// Collection schema field names shared by the index definition, the
// document codecs, and the filter predicate builder.
const (
	FieldID          = "product_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldInStock     = "in_stock"
	FieldBrand       = "brand"
)

// AttributeFields lists the scalar fields returned with every search
// hit. The id is not among them: it rides as the document key.
func AttributeFields() []string {
	return []string{
		FieldName, FieldDescription,
		FieldCategory, FieldPrice, FieldInStock, FieldBrand,
	}
}
