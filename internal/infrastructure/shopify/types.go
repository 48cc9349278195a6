package shopify

import "time"

// productNode is the product projection every query selects
type productNode struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ProductType     string    `json:"productType"`
	DescriptionHTML string    `json:"descriptionHtml"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Variants        struct {
		Nodes []variantNode `json:"nodes"`
	} `json:"variants"`
	Metafields struct {
		Nodes []metafieldNode `json:"nodes"`
	} `json:"metafields"`
}

type variantNode struct {
	ID    string `json:"id"`
	SKU   string `json:"sku"`
	Price string `json:"price"`
}

type metafieldNode struct {
	ID    string `json:"id,omitempty"`
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
	Reference *struct {
		ID string `json:"id"`
	} `json:"reference,omitempty"`
}

// productFields is the shared GraphQL selection for productNode
const productFields = `
	id
	title
	productType
	descriptionHtml
	status
	createdAt
	updatedAt
	variants(first: 1) { nodes { id sku price } }
	metafields(first: 50, namespace: "custom") { nodes { key type value } }
`

type productData struct {
	Product *productNode `json:"product"`
}

type productsCountData struct {
	ProductsCount struct {
		Count int `json:"count"`
	} `json:"productsCount"`
}

type productCreateData struct {
	ProductCreate struct {
		Product    *productNode `json:"product"`
		UserErrors []userError  `json:"userErrors,omitempty"`
	} `json:"productCreate"`
}

type productUpdateData struct {
	ProductUpdate struct {
		Product    *productNode `json:"product"`
		UserErrors []userError  `json:"userErrors,omitempty"`
	} `json:"productUpdate"`
}

type variantSearchData struct {
	ProductVariants struct {
		Nodes []struct {
			ID      string `json:"id"`
			SKU     string `json:"sku"`
			Product struct {
				ID string `json:"id"`
			} `json:"product"`
		} `json:"nodes"`
	} `json:"productVariants"`
}

type variantsBulkUpdateData struct {
	ProductVariantsBulkUpdate struct {
		ProductVariants []struct {
			ID string `json:"id"`
		} `json:"productVariants,omitempty"`
		UserErrors []userError `json:"userErrors,omitempty"`
	} `json:"productVariantsBulkUpdate"`
}

type productSetData struct {
	ProductSet struct {
		Product    *productNode `json:"product"`
		UserErrors []userError  `json:"userErrors,omitempty"`
	} `json:"productSet"`
}

type metafieldsSetData struct {
	MetafieldsSet struct {
		Metafields []metafieldNode `json:"metafields,omitempty"`
		UserErrors []userError     `json:"userErrors,omitempty"`
	} `json:"metafieldsSet"`
}

type metafieldsDeleteData struct {
	MetafieldsDelete struct {
		DeletedMetafields []struct {
			OwnerID string `json:"ownerId"`
			Key     string `json:"key"`
		} `json:"deletedMetafields,omitempty"`
		UserErrors []userError `json:"userErrors,omitempty"`
	} `json:"metafieldsDelete"`
}

type stagedUploadsCreateData struct {
	StagedUploadsCreate struct {
		StagedTargets []struct {
			URL         string `json:"url"`
			ResourceURL string `json:"resourceUrl"`
			Parameters  []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"parameters"`
		} `json:"stagedTargets"`
		UserErrors []userError `json:"userErrors,omitempty"`
	} `json:"stagedUploadsCreate"`
}

type fileNode struct {
	ID        string    `json:"id"`
	Alt       string    `json:"alt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	FileStatus string   `json:"fileStatus,omitempty"`
	URL       string    `json:"url,omitempty"`
	OriginalFileSize int64 `json:"originalFileSize,omitempty"`
	MimeType  string    `json:"mimeType,omitempty"`
}

type fileCreateData struct {
	FileCreate struct {
		Files      []fileNode  `json:"files,omitempty"`
		UserErrors []userError `json:"userErrors,omitempty"`
	} `json:"fileCreate"`
}

type fileUpdateData struct {
	FileUpdate struct {
		Files      []fileNode  `json:"files,omitempty"`
		UserErrors []userError `json:"userErrors,omitempty"`
	} `json:"fileUpdate"`
}

type fileDeleteData struct {
	FileDelete struct {
		DeletedFileIds []string    `json:"deletedFileIds,omitempty"`
		UserErrors     []userError `json:"userErrors,omitempty"`
	} `json:"fileDelete"`
}

type filesData struct {
	Files struct {
		Nodes []struct {
			ID        string    `json:"id"`
			Alt       string    `json:"alt,omitempty"`
			CreatedAt time.Time `json:"createdAt"`
			Preview   *struct {
				Image *struct {
					URL string `json:"url"`
				} `json:"image,omitempty"`
			} `json:"preview,omitempty"`
			URL              string `json:"url,omitempty"`
			OriginalFileSize int64  `json:"originalFileSize,omitempty"`
			MimeType         string `json:"mimeType,omitempty"`
		} `json:"nodes"`
	} `json:"files"`
}
