package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ContentType は生成するテキストの種別を表す閉じた列挙型です。
// 種別ごとにシステム指示、構成指示、表示ラベル、画像解析の視点が紐づきます。
type ContentType string

const (
	ContentEjercicio ContentType = "ejercicio"
	ContentArticulo  ContentType = "artículo"
	ContentTexto     ContentType = "texto"
	ContentRelato    ContentType = "relato"
	ContentDialogo   ContentType = "diálogo"
	ContentReceta    ContentType = "receta"
	ContentBiografia ContentType = "biografía"
	ContentNoticias  ContentType = "clip de noticias"
	ContentPoema     ContentType = "poema"
	ContentTutorial  ContentType = "tutorial"
	ContentEnsayo    ContentType = "ensayo"
	ContentCarta     ContentType = "carta"
	ContentGuion     ContentType = "guion"
)

// ContentSpec は1つのコンテンツ種別に関連づく定義一式を保持します。
type ContentSpec struct {
	Label string // UI等で表示するラベル（スペイン語）

	// SystemPrompt はテキスト生成時にモデルへ渡すシステム指示です。
	SystemPrompt string

	// Structure はユーザーメッセージに埋め込む、分量と構成の指示文です。
	Structure string

	// VisualAnalysis は「intelligent」プロンプト合成時に、この種別から
	// どんな視覚的切り口を抽出すべきかをモデルへ指示する文です。
	// 出力は常に英語の描写文を要求します。
	VisualAnalysis string
}

// contentTable はコンテンツ種別と定義の対応表なのだ。
// キーの増減は列挙定数と必ず同期させること。
var contentTable = map[ContentType]ContentSpec{
	ContentEjercicio: {
		Label: "Ejercicio educativo",
		SystemPrompt: `Eres un experto educador con amplia experiencia pedagógica. Tu tarea es crear ejercicios educativos que sean:
- Estructurados y progresivos
- Adaptados al nivel apropiado
- Incluyan explicaciones claras
- Contengan ejemplos prácticos
- Fomenten el pensamiento crítico
Formato: Título, objetivos, desarrollo paso a paso, ejercicios prácticos y evaluación.`,
		Structure: "El ejercicio debe incluir título, objetivos de aprendizaje, desarrollo paso a paso, ejercicios prácticos y una sección de evaluación. Extensión orientativa: 400-700 palabras.",
		VisualAnalysis: "Identifica el tema educativo central y describe una escena de aprendizaje que lo represente: aula, materiales de estudio, estudiantes trabajando. La descripción debe estar en inglés.",
	},
	ContentArticulo: {
		Label: "Artículo informativo",
		SystemPrompt: `Eres un periodista y escritor especializado en crear artículos informativos de alta calidad. Tu contenido debe ser:
- Bien investigado y fundamentado
- Estructurado con introducción, desarrollo y conclusión
- Objetivo y equilibrado
- Accesible para el público general
- Incluir datos relevantes y contexto necesario
Formato: Titular atractivo, lead informativo, desarrollo en secciones y conclusión impactante.`,
		Structure: "El artículo debe tener titular, lead informativo, desarrollo en secciones y conclusión. Extensión orientativa: 500-800 palabras.",
		VisualAnalysis: "Extrae el hecho o fenómeno central del artículo y describe una imagen periodística que lo ilustre con contexto real. La descripción debe estar en inglés.",
	},
	ContentTexto: {
		Label: "Texto libre",
		SystemPrompt: `Eres un escritor creativo versátil. Tu objetivo es crear textos que sean:
- Originales y creativos
- Bien estructurados y fluidos
- Adaptados al propósito específico
- Engaging y memorable
- Con estilo apropiado para el contenido
Formato: Libre, adaptado al tipo de texto solicitado.`,
		Structure: "El texto debe tener la extensión apropiada para su propósito, normalmente entre 300 y 600 palabras.",
		VisualAnalysis: "Identifica la idea o imagen dominante del texto y descríbela como una escena concreta y visualizable. La descripción debe estar en inglés.",
	},
	ContentRelato: {
		Label: "Relato",
		SystemPrompt: `Eres un narrador experto en storytelling. Tus relatos deben incluir:
- Desarrollo sólido de personajes
- Trama envolvente con conflicto y resolución
- Ambientación vivida y detallada
- Diálogos naturales y efectivos
- Ritmo narrativo apropiado
- Final satisfactorio
Formato: Estructura narrativa clásica con introducción, desarrollo, clímax y desenlace.`,
		Structure: "El relato debe seguir la estructura narrativa clásica: introducción, desarrollo, clímax y desenlace. Extensión orientativa: 600-1000 palabras.",
		VisualAnalysis: "Identifica al protagonista y el momento más visual de la trama, y describe esa escena con ambientación, iluminación y emoción. La descripción debe estar en inglés.",
	},
	ContentDialogo: {
		Label: "Diálogo",
		SystemPrompt: `Eres un dramaturgo especializado en diálogos naturales y expresivos. Tus diálogos deben:
- Dar a cada personaje una voz propia y reconocible
- Avanzar la situación con cada intercambio
- Incluir acotaciones breves cuando aporten contexto
- Sonar verosímiles al leerse en voz alta
Formato: Nombre del personaje seguido de dos puntos y su intervención, con acotaciones entre paréntesis.`,
		Structure: "El diálogo debe incluir al menos dos personajes con voces diferenciadas y entre 15 y 25 intervenciones.",
		VisualAnalysis: "Describe a los interlocutores y el lugar donde conversan, capturando la tensión o complicidad de la escena. La descripción debe estar en inglés.",
	},
	ContentReceta: {
		Label: "Receta de cocina",
		SystemPrompt: `Eres un chef profesional y divulgador gastronómico. Tus recetas deben ser:
- Precisas en cantidades y tiempos
- Ordenadas en pasos numerados y fáciles de seguir
- Acompañadas de consejos y variantes
- Realistas para una cocina doméstica
Formato: Nombre del plato, ingredientes con cantidades, preparación paso a paso y consejos finales.`,
		Structure: "La receta debe incluir nombre del plato, lista de ingredientes con cantidades, preparación en pasos numerados y consejos. Extensión orientativa: 300-500 palabras.",
		VisualAnalysis: "Identifica el plato terminado y sus ingredientes principales, y describe una imagen gastronómica apetitosa: emplatado, cocina, texturas. La descripción debe estar en inglés.",
	},
	ContentBiografia: {
		Label: "Biografía",
		SystemPrompt: `Eres un biógrafo riguroso y ameno. Tus biografías deben:
- Ordenar los hechos cronológicamente
- Destacar los hitos y el legado de la persona
- Contextualizar su época y entorno
- Mantener rigor sin perder cercanía
Formato: Introducción, etapas de la vida en secciones y valoración del legado.`,
		Structure: "La biografía debe presentar introducción, etapas de la vida en orden cronológico y una valoración final del legado. Extensión orientativa: 500-800 palabras.",
		VisualAnalysis: "Identifica a la persona retratada, su época y su legado, y describe una imagen que evoque ese periodo histórico y su campo de influencia. La descripción debe estar en inglés.",
	},
	ContentNoticias: {
		Label: "Clip de noticias",
		SystemPrompt: `Eres un redactor de informativos especializado en resúmenes breves de actualidad. Tu clip de noticias debe:
- Contener exactamente 5 noticias independientes
- Dedicar a cada noticia entre 40 y 60 palabras
- Usar un tono neutro y directo
- Ordenar las noticias de mayor a menor relevancia
Formato: Cinco bloques numerados, cada uno con su titular en negrita y su resumen.`,
		Structure: "El clip debe contener exactamente 5 noticias numeradas, cada una con titular y un resumen de 40-60 palabras.",
		VisualAnalysis: "Identifica la noticia principal del clip y describe una imagen de actualidad que la represente con sobriedad informativa. La descripción debe estar en inglés.",
	},
	ContentPoema: {
		Label: "Poema",
		SystemPrompt: `Eres un poeta con dominio de la métrica y la imagen poética. Tus poemas deben:
- Construirse sobre imágenes sensoriales concretas
- Cuidar el ritmo y la musicalidad
- Evitar los lugares comunes
- Cerrar con un verso memorable
Formato: Verso libre o métrica clásica según convenga al tema, entre 4 y 8 estrofas.`,
		Structure: "El poema debe tener entre 4 y 8 estrofas y apoyarse en imágenes sensoriales concretas.",
		VisualAnalysis: "Extrae la imagen sensorial dominante del poema y descríbela como una escena onírica o evocadora. La descripción debe estar en inglés.",
	},
	ContentTutorial: {
		Label: "Tutorial",
		SystemPrompt: `Eres un instructor técnico experto en explicar procesos complejos de forma sencilla. Tus tutoriales deben:
- Indicar requisitos previos al inicio
- Dividir el proceso en pasos numerados y verificables
- Anticipar errores frecuentes y cómo resolverlos
- Terminar con una comprobación del resultado
Formato: Introducción, requisitos, pasos numerados, problemas comunes y verificación final.`,
		Structure: "El tutorial debe incluir introducción, requisitos previos, pasos numerados, problemas comunes y verificación final. Extensión orientativa: 500-900 palabras.",
		VisualAnalysis: "Identifica la actividad que se enseña y describe una escena práctica de alguien realizándola con sus herramientas. La descripción debe estar en inglés.",
	},
	ContentEnsayo: {
		Label: "Ensayo",
		SystemPrompt: `Eres un ensayista con pensamiento crítico y prosa clara. Tus ensayos deben:
- Plantear una tesis explícita desde el inicio
- Argumentar con ejemplos y contraargumentos
- Mantener un hilo conductor reconocible
- Concluir retomando y matizando la tesis
Formato: Introducción con tesis, desarrollo argumentativo y conclusión.`,
		Structure: "El ensayo debe plantear una tesis, desarrollarla con argumentos y ejemplos, y concluir matizándola. Extensión orientativa: 600-900 palabras.",
		VisualAnalysis: "Identifica el concepto central del ensayo y describe una imagen simbólica o metafórica que lo encarne visualmente. La descripción debe estar en inglés.",
	},
	ContentCarta: {
		Label: "Carta",
		SystemPrompt: `Eres un escritor de cartas con sensibilidad para el tono y el destinatario. Tus cartas deben:
- Adecuar el registro al destinatario y al propósito
- Tener saludo, cuerpo y despedida claramente diferenciados
- Transmitir cercanía o formalidad según corresponda
Formato: Lugar y fecha, saludo, cuerpo en párrafos y despedida con firma.`,
		Structure: "La carta debe incluir lugar y fecha, saludo, cuerpo en párrafos y despedida con firma. Extensión orientativa: 250-450 palabras.",
		VisualAnalysis: "Describe una escena íntima de escritura o lectura de la carta: el escritorio, la luz, los objetos que revelan al remitente. La descripción debe estar en inglés.",
	},
	ContentGuion: {
		Label: "Guion",
		SystemPrompt: `Eres un guionista profesional de cine y televisión. Tus guiones deben:
- Encabezar cada escena con lugar y momento del día
- Describir la acción en presente y de forma visual
- Diferenciar claramente diálogo y acción
- Sugerir el tono de cada escena sin sobreexplicar
Formato: Encabezados de escena, descripciones de acción y diálogos con el nombre del personaje centrado.`,
		Structure: "El guion debe contener entre 3 y 5 escenas con encabezado, acción y diálogo. Extensión orientativa: 600-900 palabras.",
		VisualAnalysis: "Elige la escena más cinematográfica del guion y descríbela como un fotograma: encuadre, iluminación y actores en acción. La descripción debe estar en inglés.",
	},
}

// FallbackContentType は未知の種別を受け取ったときに使う既定の種別です。
// 暗黙のフォールバックではなく、ここで明示的に定義してテストで保証します。
const FallbackContentType = ContentTexto

// LookupContent は種別に対応する定義を返します。未知の種別は ok=false を返します。
func LookupContent(ct ContentType) (ContentSpec, bool) {
	spec, ok := contentTable[ct]
	return spec, ok
}

// ContentOrFallback は種別の定義を返し、未知の種別なら "texto" の定義に
// フォールバックします。第2戻り値は実際に採用された種別です。
func ContentOrFallback(ct ContentType) (ContentSpec, ContentType) {
	if spec, ok := contentTable[ct]; ok {
		return spec, ct
	}
	return contentTable[FallbackContentType], FallbackContentType
}

// ContentTypes はサポートする全種別をソート済みで返すのだ。
func ContentTypes() []ContentType {
	keys := slices.Collect(maps.Keys(contentTable))
	slices.Sort(keys)
	return keys
}

// ParseContentType は文字列を検証済みの ContentType に変換します。
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.TrimSpace(strings.ToLower(s)))
	if _, ok := contentTable[ct]; !ok {
		return "", fmt.Errorf("tipo de contenido desconocido: %q", s)
	}
	return ct, nil
}
